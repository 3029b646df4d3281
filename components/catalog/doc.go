// Package catalog serves named option collections over net/http so remote
// forms can load them with options.HTTPSupplier.
//
// The handler answers GET and HEAD on <route>/{name} with a bare JSON array of
// {id, label} objects. The q and limit parameters narrow the result. Built-in
// data for the profile demo form is embedded under data/profile.yaml.
package catalog
