package domain_test

import (
	"reflect"
	"testing"

	"mdnotes/internal/modules/library/domain"
)

func TestTypeLabel(t *testing.T) {
	t.Parallel()
	if label, ok := domain.TypeLabel("journalArticle"); !ok || label != "Article" {
		t.Fatalf("unexpected label %q %v", label, ok)
	}
	if label, ok := domain.TypeLabel("bookSection"); !ok || label != "Chapter" {
		t.Fatalf("unexpected label %q %v", label, ok)
	}
	if _, ok := domain.TypeLabel("dataset"); ok {
		t.Fatalf("dataset is not in the table")
	}
}

func TestParseCitedKeys(t *testing.T) {
	t.Parallel()
	extra := "tex.ids: x\ncites: smith2020\ncites: jones2019\r\ncites: smith2020\n cites: indented\ncites:   \n"
	got := domain.ParseCitedKeys(extra)
	want := []string{"smith2020", "jones2019"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("want %v got %v", want, got)
	}
	if len(domain.ParseCitedKeys("")) != 0 {
		t.Fatalf("empty extra should cite nothing")
	}
}

func TestExtraCitationKey(t *testing.T) {
	t.Parallel()
	key, ok := domain.ExtraCitationKey("Some note\nCitation Key: lovelace1843\n")
	if !ok || key != "lovelace1843" {
		t.Fatalf("unexpected key %q %v", key, ok)
	}
	if _, ok := domain.ExtraCitationKey("citation key:   "); ok {
		t.Fatalf("blank key should not resolve")
	}
}

func TestCitekeyFallsBackToUndefined(t *testing.T) {
	t.Parallel()
	if got := (domain.Item{}).Citekey(); got != domain.UndefinedCitekey {
		t.Fatalf("unexpected citekey %q", got)
	}
	if got := (domain.Related{CitationKey: "k"}).Citekey(); got != "k" {
		t.Fatalf("unexpected related citekey %q", got)
	}
}

func TestAuthorNamesKeepsAuthorsOnly(t *testing.T) {
	t.Parallel()
	got := domain.AuthorNames([]domain.Creator{
		{First: "Ada", Last: "Lovelace", Role: "author"},
		{First: "Ed", Last: "Itor", Role: "editor"},
		{Last: "Babbage"},
	})
	want := []string{"Ada Lovelace", "Babbage"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("want %v got %v", want, got)
	}
}

func TestLinks(t *testing.T) {
	t.Parallel()
	item := domain.Item{Key: "ABCD1234", LibraryID: 1}
	if got := item.LocalURI(); got != "zotero://select/items/1_ABCD1234" {
		t.Fatalf("unexpected local uri %q", got)
	}
	if got := domain.PDFURI("PDF00001"); got != "zotero://open-pdf/library/items/PDF00001" {
		t.Fatalf("unexpected pdf uri %q", got)
	}
}

func TestPDFsFiltersByContentType(t *testing.T) {
	t.Parallel()
	item := domain.Item{Attachments: []domain.Attachment{
		{Key: "A", ContentType: "application/pdf"},
		{Key: "B", ContentType: "text/html"},
		{Key: "C", ContentType: "Application/PDF"},
	}}
	pdfs := item.PDFs()
	if len(pdfs) != 2 || pdfs[0].Key != "A" || pdfs[1].Key != "C" {
		t.Fatalf("unexpected pdfs %+v", pdfs)
	}
}
