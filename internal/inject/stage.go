package inject

import (
	"path/filepath"
	"strings"
)

// Stage is one compiled unit of a shader program
type Stage int

const (
	StageVertex Stage = iota
	StageFragment
	StageGeometry
	StageCompute
	StageTessControl
	StageTessEvaluation
)

var stageExtensions = map[Stage]string{
	StageVertex:         ".vert",
	StageFragment:       ".frag",
	StageGeometry:       ".geom",
	StageCompute:        ".comp",
	StageTessControl:    ".tesc",
	StageTessEvaluation: ".tese",
}

var stageNames = map[Stage]string{
	StageVertex:         "vertex",
	StageFragment:       "fragment",
	StageGeometry:       "geometry",
	StageCompute:        "compute",
	StageTessControl:    "tess_control",
	StageTessEvaluation: "tess_evaluation",
}

// Extension returns the conventional file extension for the stage, with the dot
func (s Stage) Extension() string {
	return stageExtensions[s]
}

// String returns the stage name
func (s Stage) String() string {
	if name, ok := stageNames[s]; ok {
		return name
	}
	return "unknown"
}

// StageFromFilename infers the stage from a file's extension
func StageFromFilename(name string) (Stage, bool) {
	ext := strings.ToLower(filepath.Ext(name))
	for stage, e := range stageExtensions {
		if e == ext {
			return stage, true
		}
	}
	return 0, false
}
