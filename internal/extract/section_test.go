package extract

import (
	"errors"
	"strings"
	"testing"
)

func TestLocateSection(t *testing.T) {
	t.Run("empty_hint_returns_full_text", func(t *testing.T) {
		text := "Some document body.\nWith lines."
		got, err := LocateSection(text, "")
		if err != nil {
			t.Fatalf("LocateSection() error = %v", err)
		}
		if got != text {
			t.Errorf("got %q, want full text", got)
		}
	})

	t.Run("exact_heading", func(t *testing.T) {
		text := "Body text here.\nReferences\n1. Smith, J. (2020). Study."
		got, err := LocateSection(text, "References")
		if err != nil {
			t.Fatalf("LocateSection() error = %v", err)
		}
		if !strings.HasPrefix(got, "1. Smith") {
			t.Errorf("section = %q, want it to start at first entry", got)
		}
	})

	t.Run("whitespace_tolerant_multiword_hint", func(t *testing.T) {
		text := "preamble\nWorks   Cited\nDoe, A. (2019). Paper."
		got, err := LocateSection(text, "Works Cited")
		if err != nil {
			t.Fatalf("LocateSection() error = %v", err)
		}
		if !strings.Contains(got, "Doe, A.") {
			t.Errorf("section = %q, want entry after heading", got)
		}
	})

	t.Run("single_token_fallback", func(t *testing.T) {
		text := "body\nBibliography\nEntry one."
		got, err := LocateSection(text, "Bibliography of Sources")
		if err != nil {
			t.Fatalf("LocateSection() error = %v", err)
		}
		if !strings.Contains(got, "Entry one.") {
			t.Errorf("section = %q, want token-matched section", got)
		}
	})

	t.Run("hint_not_found", func(t *testing.T) {
		_, err := LocateSection("no headings here", "Glossary")
		if !errors.Is(err, ErrSectionNotFound) {
			t.Errorf("error = %v, want ErrSectionNotFound", err)
		}
	})

	t.Run("truncates_at_boundary_heading", func(t *testing.T) {
		entries := "1. Smith, J. (2020). A study of things that take up room on the page.\n" +
			"2. Jones, B. (2019). Another entry to push the boundary past the guard offset.\n"
		text := "body\nReferences\n" + entries + "Appendix A\nAppendix material."
		got, err := LocateSection(text, "References")
		if err != nil {
			t.Fatalf("LocateSection() error = %v", err)
		}
		if strings.Contains(got, "Appendix material") {
			t.Errorf("section = %q, want truncation before appendix", got)
		}
		if !strings.Contains(got, "Jones, B.") {
			t.Errorf("section = %q, want all entries before the boundary", got)
		}
	})

	t.Run("boundary_inside_guard_offset_ignored", func(t *testing.T) {
		// "Notes" within the first minBoundaryOffset characters must not
		// truncate the section down to nothing.
		text := "body\nReferences\nNotes on sources: see below.\nSmith, J. (2020). Entry."
		got, err := LocateSection(text, "References")
		if err != nil {
			t.Fatalf("LocateSection() error = %v", err)
		}
		if !strings.Contains(got, "Smith, J.") {
			t.Errorf("section = %q, want guard to keep early boundary words", got)
		}
	})
}
