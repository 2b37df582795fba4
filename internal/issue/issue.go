// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"github.com/charmbracelet/glamour"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

type Id int

const (
	FileNotFoundId Id = iota + 1
	UnsupportedFormatId
	ModelParseErrorId
	FileTooLargeId
	FeatureNotFoundId
	ConfigLoadFailedId
	InvalidFormatId
	RequiresCycleId
	ConstraintConflictId
	PermissionDeniedId
	WatchFailedId
)

type MarkdownMsg string

type HttpLink string

type Renderer interface {
	Render(in string, stylePath string) (string, error)
}

type Issue struct {
	id       Id          // ID used to lookup the issue
	mdMsg    MarkdownMsg // Markdown text that will be rendered
	docLinks []HttpLink
	extLinks []HttpLink // external links that might be useful for the user
}

func (i *Issue) Id() Id {
	return i.id
}

func (i *Issue) MarkdownMsg() MarkdownMsg {
	return i.mdMsg
}

func (i *Issue) DocLinks() []HttpLink {
	return slices.Clone(i.docLinks)
}

func (i *Issue) ExtLinks() []HttpLink {
	return slices.Clone(i.extLinks)
}

func (i *Issue) Render(stylePath string) (string, error) {
	extraMd := ""
	if len(i.docLinks) > 0 || len(i.extLinks) > 0 {
		extraMd += "\n\n"
		extraMd += "## See also:\n"
		for _, link := range i.docLinks {
			extraMd += "- <" + string(link) + ">\n"
		}
		for _, link := range i.extLinks {
			extraMd += "- <" + string(link) + ">\n"
		}
	}
	return render(string(i.mdMsg)+extraMd, stylePath)
}

var (
	render = glamour.Render

	fileNotFoundIssue = &Issue{
		id: FileNotFoundId,
		mdMsg: `
# Model file not found!

The feature model file you asked for does not exist or is a directory.

## Things you can try:
- Check the path for typos
- List the model files fmkit can read in a directory:
~~~
$ fmkit check 'models/**/*'
~~~`,
	}

	unsupportedFormatIssue = &Issue{
		id: UnsupportedFormatId,
		mdMsg: `
# Unsupported model format!

fmkit picks a reader from the file extension and could not find one for this file.

## Recognized extensions:
- **.sxfm**, **.splx**: SPLOT / SXFM
- **.xml**: FeatureIDE
- **.xmi**: v.control XMI
- **.json**: Glencoe
- **.fm4conf**: descriptive text
- **.cue**, **.toml**, **.yaml**, **.yml**: fmkit documents

## Things you can try:
- Force a reader with the format flag:
~~~
$ fmkit show --format sxfm model.txt
~~~`,
		extLinks: []HttpLink{"https://featureide.github.io/"},
	}

	modelParseErrorIssue = &Issue{
		id: ModelParseErrorId,
		mdMsg: `
# Failed to parse feature model!

The file was recognized but its content could not be turned into a feature model.

## Common issues:
- A relationship or constraint refers to an unknown feature
- An alternative or or-group has fewer than two children
- The file has more than one root feature
- Unsupported constraint operators (only requires, excludes and clauses are read)

## Things you can try:
- Check the error message above for the offending entry
- Run with verbose mode for more details:
~~~
$ fmkit --verbose show model.sxfm
~~~`,
	}

	fileTooLargeIssue = &Issue{
		id: FileTooLargeId,
		mdMsg: `
# Model file too large!

The file exceeds the configured size limit and was not read.

## Things you can try:
- Raise the limit in your config file:
~~~cue
parser: {
  max_file_size: 10485760
}
~~~`,
	}

	featureNotFoundIssue = &Issue{
		id: FeatureNotFoundId,
		mdMsg: `
# Feature not found!

The model has no feature with the name you gave.

## Things you can try:
- List the features of the model:
~~~
$ fmkit features model.sxfm
~~~

- Feature names are case sensitive`,
	}

	configLoadFailedIssue = &Issue{
		id: ConfigLoadFailedId,
		mdMsg: `
# Failed to load configuration!

Could not load the fmkit configuration file.

## Configuration file locations:
- Linux: ~/.config/fmkit/config.cue
- macOS: ~/Library/Application Support/fmkit/config.cue
- Windows: %APPDATA%\fmkit\config.cue

## Things you can try:
- Create a default configuration:
~~~
$ fmkit config init
~~~

- Check the configuration syntax
- Show which file is in use:
~~~
$ fmkit config path
~~~

## Example configuration:
~~~cue
default_format: "auto"

ui: {
  color_scheme: "auto"
  verbose: false
}

batch: {
  concurrency: 4
}
~~~`,
	}

	invalidFormatIssue = &Issue{
		id: InvalidFormatId,
		mdMsg: `
# Invalid format name!

The format flag or the default_format setting names a reader fmkit does not know.

## Valid formats:
- auto, sxfm, featureide, xmi, glencoe, descriptive, cue, toml, yaml

## Valid output formats for convert:
- cue, toml, yaml, json, descriptive`,
	}

	requiresCycleIssue = &Issue{
		id: RequiresCycleId,
		mdMsg: `
# Requires cycle detected!

A chain of requires constraints leads back to where it started.
Every feature on the cycle must be selected together.

## Example of a cycle:
~~~
requires(Disc, Hydraulics)
requires(Hydraulics, Disc)
~~~

## Things you can try:
- Replace the cycle with mandatory relationships if the features always go together
- Remove the constraint that closes the cycle`,
	}

	constraintConflictIssue = &Issue{
		id: ConstraintConflictId,
		mdMsg: `
# Conflicting constraints!

A feature both requires and excludes the same feature, so it can never be selected.

## Things you can try:
- Run the checker to list every conflict:
~~~
$ fmkit check model.sxfm
~~~

- Remove one of the two constraints`,
	}

	permissionDeniedIssue = &Issue{
		id: PermissionDeniedId,
		mdMsg: `
# Permission denied!

You don't have permission to read the model or write the output file.

## Things you can try:
- Check file and directory permissions
- Write converted output to a directory you own:
~~~
$ fmkit convert model.sxfm --to cue -o ./model.cue
~~~`,
	}

	watchFailedIssue = &Issue{
		id: WatchFailedId,
		mdMsg: `
# File watcher failed!

fmkit could not start or keep watching the directory.

## Things you can try:
- Check that the directory exists
- On Linux, raise the inotify watch limit:
~~~
$ sudo sysctl fs.inotify.max_user_watches=524288
~~~`,
		extLinks: []HttpLink{"https://github.com/fsnotify/fsnotify"},
	}

	issues = map[Id]*Issue{
		fileNotFoundIssue.Id():       fileNotFoundIssue,
		unsupportedFormatIssue.Id():  unsupportedFormatIssue,
		modelParseErrorIssue.Id():    modelParseErrorIssue,
		fileTooLargeIssue.Id():       fileTooLargeIssue,
		featureNotFoundIssue.Id():    featureNotFoundIssue,
		configLoadFailedIssue.Id():   configLoadFailedIssue,
		invalidFormatIssue.Id():      invalidFormatIssue,
		requiresCycleIssue.Id():      requiresCycleIssue,
		constraintConflictIssue.Id(): constraintConflictIssue,
		permissionDeniedIssue.Id():   permissionDeniedIssue,
		watchFailedIssue.Id():        watchFailedIssue,
	}
)

func Values() []*Issue {
	return maps.Values(issues)
}

func Get(id Id) *Issue {
	return issues[id]
}
