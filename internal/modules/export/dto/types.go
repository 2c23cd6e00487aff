package dto

import "mdnotes/internal/platform/config"

type ExportInput struct {
	Mode       string
	Keys       []string
	Tags       []string
	Collection string
	Config     config.Export
	OutputDir  string
}

type FileOutput struct {
	Name    string
	Path    string
	Skipped bool
	Link    string
}

type ItemOutput struct {
	Key   string
	Files []FileOutput
	Error string
}

type ExportOutput struct {
	RunID   string
	Items   []ItemOutput
	Written int
	Failed  int
}

type RenderInput struct {
	Mode   string
	Key    string
	Config config.Export
}

type RenderedFile struct {
	Name     string
	Contents string
}
