// Package model defines the catalog records shared by every cm package.
package model

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
)

// Course is a catalog record as declared in a catalog file. Derived relations
// (required-for, recent prerequisites) live in the built catalog, keyed by code.
type Course struct {
	Code          string   `json:"code" yaml:"code"`
	Name          string   `json:"name" yaml:"name"`
	Semester      int      `json:"semester" yaml:"semester"`
	Credits       int      `json:"credits" yaml:"credits"`
	Prerequisites []string `json:"prerequisites" yaml:"prerequisites"`
}

// Validate checks the fields a course needs to take part in the catalog.
func (c Course) Validate() error {
	var errs []error
	if strings.TrimSpace(c.Code) == "" {
		errs = append(errs, errors.New("code cannot be empty"))
	}
	if c.Semester <= 0 {
		errs = append(errs, fmt.Errorf("semester must be positive, got %d", c.Semester))
	}
	if c.Credits <= 0 {
		errs = append(errs, fmt.Errorf("credits must be positive, got %d", c.Credits))
	}
	return errors.Join(errs...)
}

// Normalize trims the code and prerequisite codes, drops empty prerequisite
// entries and collapses repeated prerequisites, keeping the first occurrence.
func (c Course) Normalize() Course {
	out := c
	out.Code = strings.TrimSpace(c.Code)
	out.Name = strings.TrimSpace(c.Name)
	out.Prerequisites = nil
	seen := make(map[string]struct{}, len(c.Prerequisites))
	for _, p := range c.Prerequisites {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		if _, dup := seen[p]; dup {
			continue
		}
		seen[p] = struct{}{}
		out.Prerequisites = append(out.Prerequisites, p)
	}
	if out.Prerequisites == nil {
		out.Prerequisites = []string{}
	}
	return out
}

// HasPrerequisite reports whether code is among the declared prerequisites.
func (c Course) HasPrerequisite(code string) bool {
	for _, p := range c.Prerequisites {
		if p == code {
			return true
		}
	}
	return false
}

// Clone returns a copy that shares no slices with c.
func (c Course) Clone() Course {
	out := c
	out.Prerequisites = append([]string(nil), c.Prerequisites...)
	return out
}

// CodePrefix returns the leading run of letters in a course code, e.g. "BPT"
// for "BPT216". Codes that start with a digit have no prefix.
func CodePrefix(code string) string {
	end := 0
	for i, r := range code {
		if r > unicode.MaxASCII || !unicode.IsLetter(r) {
			break
		}
		end = i + 1
	}
	return code[:end]
}

// CreditBand classifies credit hours the way the catalog filter panel groups them.
func CreditBand(credits int) string {
	switch {
	case credits <= 2:
		return "low"
	case credits <= 4:
		return "medium"
	default:
		return "high"
	}
}
