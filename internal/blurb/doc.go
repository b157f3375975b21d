// Package blurb parses and validates blurb files.
//
// A blurb file is a YAML stream written alongside a pull request. It holds one
// author entry and any number of change entries:
//
//	author: Jane Doe
//	---
//	type: fix
//	issue: 1234
//	description: crash when the config file is empty
//
// Change entries may only carry type, issue and description. Anything else is
// rejected so that typos in field names stop the release build instead of
// silently dropping information.
package blurb
