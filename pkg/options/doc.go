// Package options holds the selectable choices backing radio groups, selects
// and multi-selects, and loads them asynchronously.
//
// Each collection starts Pending and transitions exactly once, to Ready when
// its supplier returns or to Unavailable when the supplier fails or times
// out. Unavailable is terminal; there is no retry. Renderers can therefore
// show "loading" and "unavailable" differently while the submit gate treats
// both as not ready.
package options
