// Package formctl wires the field schema, state store, input normalizer,
// option loader and validity gate into a single form lifecycle.
//
// A Controller accepts three intents (InputChanged, Submit, Reset) and emits
// two notifications (Saved, Cancelled). Every committed mutation is followed
// by exactly one render of the attached renderer:
//
//	ctl, err := formctl.New(schema,
//		formctl.WithRenderer(renderer),
//		formctl.WithSupplier("eyeColors", options.Delayed(2*time.Second, colors...)),
//		formctl.WithListener(formctl.ListenerFuncs{OnSaved: persist}),
//	)
//	if err != nil {
//		return err
//	}
//	if err := ctl.Start(ctx); err != nil {
//		return err
//	}
//
// Successful saves leave the state untouched; callers that want a blank form
// afterwards call Reset from their Saved handler.
package formctl
