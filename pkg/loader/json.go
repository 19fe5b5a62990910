package loader

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"

	json "github.com/goccy/go-json"

	"github.com/vanderheijden86/coursemap/pkg/model"
)

// parseJSON accepts either a bare array of courses or a catalog document.
func parseJSON(r io.Reader) (model.CatalogFile, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return model.CatalogFile{}, fmt.Errorf("reading catalog: %w", err)
	}
	data = bytes.TrimSpace(stripBOM(data))
	if len(data) == 0 {
		return model.CatalogFile{}, errors.New("catalog is empty")
	}

	if data[0] == '[' {
		var courses []model.Course
		if err := json.Unmarshal(data, &courses); err != nil {
			return model.CatalogFile{}, fmt.Errorf("decoding course list: %w", err)
		}
		return model.CatalogFile{Courses: courses}, nil
	}

	var cf model.CatalogFile
	if err := json.Unmarshal(data, &cf); err != nil {
		return model.CatalogFile{}, fmt.Errorf("decoding catalog: %w", err)
	}
	return cf, nil
}

// parseJSONL reads one course per line. Malformed and invalid lines are
// skipped with a warning naming the line number.
func parseJSONL(r io.Reader, opts Options) (model.CatalogFile, error) {
	maxCapacity := opts.BufferSize
	if maxCapacity <= 0 {
		maxCapacity = DefaultMaxBufferSize
	}
	reader := bufio.NewReaderSize(r, maxCapacity)
	warn := opts.warn()

	var courses []model.Course
	lineNum := 0
	for {
		lineNum++
		line, isPrefix, err := reader.ReadLine()
		if err != nil {
			if err == io.EOF {
				break
			}
			return model.CatalogFile{}, fmt.Errorf("error reading catalog stream at line %d: %w", lineNum, err)
		}

		if isPrefix {
			warn(fmt.Sprintf("skipping line %d: line too long (exceeds %d bytes)", lineNum, maxCapacity))
			for isPrefix {
				_, isPrefix, err = reader.ReadLine()
				if err == io.EOF {
					break
				}
				if err != nil {
					return model.CatalogFile{}, fmt.Errorf("error skipping long line at line %d: %w", lineNum, err)
				}
			}
			continue
		}

		if lineNum == 1 {
			line = stripBOM(line)
		}
		line = bytes.TrimSpace(line)
		if len(line) == 0 {
			continue
		}

		var course model.Course
		if err := json.Unmarshal(line, &course); err != nil {
			warn(fmt.Sprintf("skipping malformed JSON on line %d: %v", lineNum, err))
			continue
		}
		course = course.Normalize()
		if err := course.Validate(); err != nil {
			warn(fmt.Sprintf("skipping invalid course on line %d: %v", lineNum, err))
			continue
		}
		courses = append(courses, course)
	}
	return model.CatalogFile{Courses: courses}, nil
}

// stripBOM removes the UTF-8 Byte Order Mark if present
func stripBOM(b []byte) []byte {
	if bytes.HasPrefix(b, []byte{0xEF, 0xBB, 0xBF}) {
		return b[3:]
	}
	return b
}
