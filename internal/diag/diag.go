// Package diag logs the state of the working directory after a run: a tree of
// files and directories and the contents of the history files.
package diag

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pfrederiksen/dp-headlines/internal/logger"
)

// Tree renders root as indented lines, one per entry, skipping directories
// whose name is in ignore. Directories end in "/".
func Tree(root string, ignore []string) ([]string, error) {
	skip := make(map[string]bool, len(ignore))
	for _, name := range ignore {
		skip[name] = true
	}

	rootName := filepath.Base(root)
	if abs, err := filepath.Abs(root); err == nil {
		rootName = filepath.Base(abs)
	}

	var lines []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}

		depth := 0
		name := rootName
		if rel != "." {
			depth = strings.Count(rel, string(filepath.Separator)) + 1
			name = d.Name()
		}

		if d.IsDir() {
			if rel != "." && skip[name] {
				return filepath.SkipDir
			}
			name += "/"
		}

		lines = append(lines, strings.Repeat(" ", 4*depth)+"+--"+name)
		return nil
	})
	if err != nil {
		return nil, err
	}

	return lines, nil
}

// LogTree logs the tree of root line by line.
func LogTree(log *logger.Logger, root string, ignore []string) {
	log.Info("Printing tree of files/dirs", logger.Fields{"dir": root})

	lines, err := Tree(root, ignore)
	if err != nil {
		log.Warn("Failed to walk directory", logger.Fields{"dir": root, "error": err.Error()})
	}
	for _, line := range lines {
		log.Info(line, nil)
	}
}

// LogFile logs the contents of path.
func LogFile(log *logger.Logger, path string) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			log.Info("Data file does not exist yet", logger.Fields{"path": path})
			return
		}
		log.Warn("Failed to read data file", logger.Fields{"path": path, "error": err.Error()})
		return
	}

	log.Info("Printing contents of data file", logger.Fields{"path": path})
	log.Info(string(data), nil)
}
