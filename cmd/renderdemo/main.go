package main

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"cvbuilder-backend/internal/cv"
	"cvbuilder-backend/internal/exports"
)

func main() {
	outPath := flag.String("out", "./out/sample_cv.docx", "output path for generated DOCX")
	flag.Parse()

	doc := sampleDocument()

	docxBytes, err := exports.NewDocxRenderer().Render(context.Background(), doc)
	if err != nil {
		fmt.Fprintf(os.Stderr, "render failed: %v\n", err)
		os.Exit(1)
	}

	if err := writeOutputs(*outPath, doc, docxBytes); err != nil {
		fmt.Fprintf(os.Stderr, "write failed: %v\n", err)
		os.Exit(1)
	}

	if err := validateRenderedDocx(*outPath); err != nil {
		fmt.Fprintf(os.Stderr, "render validation failed: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("OK: wrote %s\n", *outPath)
}

func writeOutputs(outPath string, doc cv.Document, docxBytes []byte) error {
	dir := filepath.Dir(outPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	if err := os.WriteFile(outPath, docxBytes, 0o644); err != nil {
		return err
	}

	modelPath := filepath.Join(dir, "sample_cv.json")
	payload, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(modelPath, payload, 0o644)
}

func sampleDocument() cv.Document {
	return cv.Normalize(&cv.Document{
		ID:    "demo",
		Title: "Sample CV",
		Personal: cv.PersonalInfo{
			FirstName: "Jordan",
			LastName:  "Lee",
			Email:     "jordan.lee@example.com",
			Phone:     "+1-555-0102",
			Location:  "Austin, TX",
			Summary:   "Backend engineer with 8+ years of experience building resilient APIs and data services.",
			LinkedIn:  "https://www.linkedin.com/in/jordanlee",
			GitHub:    "https://github.com/jordanlee",
		},
		Experience: []cv.ExperienceEntry{
			{
				Company:   "Acme Logistics",
				Role:      "Senior Backend Engineer",
				Location:  "Austin, TX",
				StartDate: "2021-04-01",
				Current:   true,
				Description: cv.StringList{
					"Designed a routing service that reduced shipment latency by 18%.",
					"Implemented distributed tracing to cut incident triage time by 35%.",
				},
			},
			{
				Company:   "Blue Harbor Systems",
				Role:      "Backend Engineer",
				Location:  "Seattle, WA",
				StartDate: "2018-01-01",
				EndDate:   "2021-03-01",
				Description: cv.StringList{
					"Built event-driven ingestion pipelines for compliance data feeds.",
				},
			},
		},
		Education: []cv.EducationEntry{
			{
				School:    "University of Texas",
				Degree:    "BSc",
				Field:     "Computer Science",
				StartDate: "2010-09-01",
				EndDate:   "2014-06-01",
			},
		},
		Skills: []string{"Go", "PostgreSQL", "AWS", "Docker", "Kubernetes"},
	})
}

func validateRenderedDocx(path string) error {
	docxBytes, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	reader, err := zip.NewReader(bytes.NewReader(docxBytes), int64(len(docxBytes)))
	if err != nil {
		return err
	}

	for _, file := range reader.File {
		if file.Name == "word/document.xml" {
			return nil
		}
	}
	return fmt.Errorf("document.xml not found in docx")
}
