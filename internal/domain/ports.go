package domain

// FileWalker expands command-line paths into the files to process.
// Explicit file paths are returned as given; directories are walked.
type FileWalker interface {
	Walk(paths []string, exclude []string) ([]string, error)
}

// ConfigLoader locates and parses the project configuration file.
type ConfigLoader interface {
	// Find searches upward from startDir and returns "" when no file exists.
	Find(startDir string) (string, error)
	Load(path string) (FileConfig, error)
}

// EditorConfigReader reads the global section of the nearest .editorconfig.
type EditorConfigReader interface {
	Read(startDir string) (*EditorConfig, error)
}

// ProgressReporter receives per-file progress from a run.
type ProgressReporter interface {
	Start(total int)
	Advance(path string)
	Finish()
}
