package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/goliatone/go-formstate/pkg/config"
	"github.com/goliatone/go-formstate/pkg/fieldschema"
	"github.com/goliatone/go-formstate/pkg/options"
	"github.com/goliatone/go-formstate/pkg/widgets"
)

type violation struct {
	file     string
	location string
	message  string
}

func main() {
	flag.Usage = func() {
		if _, err := fmt.Fprintf(flag.CommandLine.Output(), "Usage: %s [paths...]\n", filepath.Base(os.Args[0])); err != nil {
			panic(err)
		}
		if _, err := fmt.Fprintf(flag.CommandLine.Output(), "\nLint formstate configuration files for schema and option source problems.\n"); err != nil {
			panic(err)
		}
	}
	flag.Parse()

	paths := flag.Args()
	if len(paths) == 0 {
		paths = []string{"examples/profile/form.yaml"}
	}

	var violations []violation
	for _, path := range paths {
		violations = append(violations, lintFile(path)...)
	}

	if len(violations) > 0 {
		sort.Slice(violations, func(i, j int) bool {
			if violations[i].file == violations[j].file {
				if violations[i].location == violations[j].location {
					return violations[i].message < violations[j].message
				}
				return violations[i].location < violations[j].location
			}
			return violations[i].file < violations[j].file
		})
		for _, v := range violations {
			fmt.Fprintf(os.Stderr, "%s: %s -> %s\n", v.file, v.location, v.message)
		}
		os.Exit(1)
	}
}

func lintFile(path string) []violation {
	cfg, err := config.LoadFile(path)
	if err != nil {
		return []violation{{file: path, location: "document", message: err.Error()}}
	}
	schema, err := cfg.Schema()
	if err != nil {
		return []violation{{file: path, location: "fields", message: err.Error()}}
	}
	return lintConfig(path, cfg, schema)
}

func lintConfig(file string, cfg *config.Config, schema *fieldschema.Schema) []violation {
	var result []violation
	referenced := make(map[string]struct{})

	registry := widgets.NewRegistry()
	for _, field := range schema.Fields() {
		location := "fields." + field.Name
		if field.Widget != "" && !knownWidget(field.Widget) {
			result = append(result, violation{
				file:     file,
				location: location,
				message:  fmt.Sprintf("unknown widget %q", field.Widget),
			})
		}
		if widget, _ := registry.Resolve(field); widget == widgets.WidgetCheckbox && field.Type != fieldschema.TypeBoolean {
			result = append(result, violation{
				file:     file,
				location: location,
				message:  "checkbox widget requires a boolean field",
			})
		}
		if field.Options == "" {
			continue
		}
		referenced[field.Options] = struct{}{}
		if _, ok := cfg.Options[field.Options]; !ok {
			result = append(result, violation{
				file:     file,
				location: location,
				message:  fmt.Sprintf("collection %q has no option source; it will stay unavailable", field.Options),
			})
		}
	}

	names := make([]string, 0, len(cfg.Options))
	for name := range cfg.Options {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		location := "options." + name
		if _, ok := referenced[name]; !ok {
			result = append(result, violation{
				file:     file,
				location: location,
				message:  "option source is not used by any field",
			})
		}
		src := cfg.Options[name]
		if src.Kind != config.SourceStatic && src.Kind != config.SourceDelayed {
			continue
		}
		if err := options.NewSet(name).Resolve(name, src.Items); err != nil {
			result = append(result, violation{
				file:     file,
				location: location,
				message:  err.Error(),
			})
		}
	}

	return result
}

func knownWidget(name string) bool {
	switch name {
	case widgets.WidgetText, widgets.WidgetTextArea, widgets.WidgetCheckbox,
		widgets.WidgetRadio, widgets.WidgetSelect, widgets.WidgetMultiSelect:
		return true
	default:
		return false
	}
}
