package loader

import (
	"fmt"
	"io"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"

	"github.com/vanderheijden86/coursemap/pkg/model"
)

// hclCatalogFile is the decode target for HCL catalogs:
//
//	program        = "Physical Therapy"
//	schema_version = "1.0.0"
//
//	course "BMS116" {
//	  name          = "Anatomy 2"
//	  semester      = 2
//	  credits       = 3
//	  prerequisites = ["BMS115"]
//	}
type hclCatalogFile struct {
	Program       string       `hcl:"program,optional"`
	Institution   string       `hcl:"institution,optional"`
	SchemaVersion string       `hcl:"schema_version,optional"`
	Courses       []*hclCourse `hcl:"course,block"`
}

type hclCourse struct {
	Code          string   `hcl:"code,label"`
	Name          string   `hcl:"name,optional"`
	Semester      int      `hcl:"semester"`
	Credits       int      `hcl:"credits"`
	Prerequisites []string `hcl:"prerequisites,optional"`
}

func parseHCL(r io.Reader, filename string) (model.CatalogFile, error) {
	src, err := io.ReadAll(r)
	if err != nil {
		return model.CatalogFile{}, fmt.Errorf("reading catalog: %w", err)
	}

	parser := hclparse.NewParser()
	file, diags := parser.ParseHCL(src, filename)
	if diags.HasErrors() {
		return model.CatalogFile{}, fmt.Errorf("failed to parse HCL catalog %s: %w", filename, diags)
	}

	var parsed hclCatalogFile
	if diags := gohcl.DecodeBody(file.Body, nil, &parsed); diags.HasErrors() {
		return model.CatalogFile{}, fmt.Errorf("failed to decode HCL catalog %s: %w", filename, diags)
	}

	cf := model.CatalogFile{
		Program:       parsed.Program,
		Institution:   parsed.Institution,
		SchemaVersion: parsed.SchemaVersion,
		Courses:       make([]model.Course, 0, len(parsed.Courses)),
	}
	for _, c := range parsed.Courses {
		cf.Courses = append(cf.Courses, model.Course{
			Code:          c.Code,
			Name:          c.Name,
			Semester:      c.Semester,
			Credits:       c.Credits,
			Prerequisites: c.Prerequisites,
		})
	}
	return cf, nil
}
