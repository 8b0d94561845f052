package pipeline

import (
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/rs/zerolog"

	"github.com/fhirtools/igdiff/igerrors"
)

// idPattern extracts artifact ids from schema source declarations of the form
// "Id: my-profile-id".
var idPattern = regexp.MustCompile(`Id:\s*([\w\-]*)`)

// FindFSHFiles walks root recursively and returns every file with a .fsh
// extension, matched case-insensitively.
func FindFSHFiles(root string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if strings.EqualFold(filepath.Ext(path), ".fsh") {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, &igerrors.DocumentError{Path: root, Message: "walking schema sources", Cause: err}
	}
	return files, nil
}

// ProfileIDs extracts every non-empty artifact id declared in a schema source
// file.
func ProfileIDs(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &igerrors.DocumentError{Path: path, Message: "reading schema source", Cause: err}
	}
	var ids []string
	for _, match := range idPattern.FindAllStringSubmatch(string(data), -1) {
		if match[1] != "" {
			ids = append(ids, match[1])
		}
	}
	return ids, nil
}

// CollectProfileIDs discovers every artifact id declared under root. A file
// that cannot be read is logged as a warning and skipped; a missing root
// directory yields an empty set.
func CollectProfileIDs(root string, logger zerolog.Logger) (map[string]struct{}, error) {
	if _, err := os.Stat(root); os.IsNotExist(err) {
		logger.Warn().Str("path", root).Msg("schema source path not found")
		return map[string]struct{}{}, nil
	}

	files, err := FindFSHFiles(root)
	if err != nil {
		return nil, err
	}

	ids := make(map[string]struct{})
	for _, file := range files {
		extracted, err := ProfileIDs(file)
		if err != nil {
			logger.Warn().Str("path", file).Err(err).Msg("skipping unreadable schema source")
			continue
		}
		logger.Debug().Str("path", file).Strs("ids", extracted).Msg("extracted artifact ids")
		for _, id := range extracted {
			ids[id] = struct{}{}
		}
	}
	return ids, nil
}
