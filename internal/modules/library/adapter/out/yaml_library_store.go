package out

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"mdnotes/internal/modules/library/domain"
	libraryout "mdnotes/internal/modules/library/port/out"
	apperrors "mdnotes/internal/platform/errors"
)

// YAMLLibraryStore reads a library exported to a single YAML file. The file
// is re-read on every List so edits are picked up by long-running commands.
type YAMLLibraryStore struct {
	path string
}

func NewYAMLLibraryStore(path string) libraryout.ItemStore {
	return &YAMLLibraryStore{path: path}
}

type libraryFile struct {
	LibraryID int           `yaml:"library_id"`
	CloudBase string        `yaml:"cloud_base"`
	Items     []libraryItem `yaml:"items"`
}

type libraryItem struct {
	Key              string              `yaml:"key"`
	Type             string              `yaml:"type"`
	Title            string              `yaml:"title"`
	Creators         []libraryCreator    `yaml:"creators"`
	Date             string              `yaml:"date"`
	DateAdded        string              `yaml:"date_added"`
	PublicationTitle string              `yaml:"publication_title"`
	URL              string              `yaml:"url"`
	DOI              string              `yaml:"doi"`
	Abstract         string              `yaml:"abstract"`
	Extra            string              `yaml:"extra"`
	CitationKey      string              `yaml:"citation_key"`
	Tags             []string            `yaml:"tags"`
	Collections      []string            `yaml:"collections"`
	Related          []string            `yaml:"related"`
	Attachments      []libraryAttachment `yaml:"attachments"`
	Notes            []string            `yaml:"notes"`
}

type libraryCreator struct {
	First string `yaml:"first"`
	Last  string `yaml:"last"`
	Role  string `yaml:"role"`
}

type libraryAttachment struct {
	Key         string `yaml:"key"`
	Title       string `yaml:"title"`
	ContentType string `yaml:"content_type"`
	Path        string `yaml:"path"`
}

func (s *YAMLLibraryStore) List(ctx context.Context, selection domain.Selection) ([]domain.Item, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	lib, err := s.load()
	if err != nil {
		return nil, err
	}

	byKey := make(map[string]libraryItem, len(lib.Items))
	for _, raw := range lib.Items {
		byKey[raw.Key] = raw
	}

	out := []domain.Item{}
	for _, raw := range lib.Items {
		item, err := toItem(lib, raw, byKey)
		if err != nil {
			return nil, err
		}
		if !selection.Matches(item) {
			continue
		}
		out = append(out, item)
	}
	return out, nil
}

func (s *YAMLLibraryStore) load() (libraryFile, error) {
	content, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return libraryFile{}, fmt.Errorf("library file %s: %w", s.path, apperrors.ErrNotFound)
	}
	if err != nil {
		return libraryFile{}, fmt.Errorf("read library file: %w", err)
	}
	var lib libraryFile
	if err := yaml.Unmarshal(content, &lib); err != nil {
		return libraryFile{}, fmt.Errorf("decode library file: %w: %v", apperrors.ErrInvalidInput, err)
	}
	return lib, nil
}

func toItem(lib libraryFile, raw libraryItem, byKey map[string]libraryItem) (domain.Item, error) {
	creators := make([]domain.Creator, 0, len(raw.Creators))
	for _, c := range raw.Creators {
		creators = append(creators, domain.Creator{First: c.First, Last: c.Last, Role: c.Role})
	}
	item := domain.Item{
		Key:              strings.TrimSpace(raw.Key),
		LibraryID:        lib.LibraryID,
		Type:             raw.Type,
		Title:            raw.Title,
		Authors:          domain.AuthorNames(creators),
		Date:             raw.Date,
		PublicationTitle: raw.PublicationTitle,
		URL:              raw.URL,
		DOI:              raw.DOI,
		Abstract:         raw.Abstract,
		Extra:            raw.Extra,
		CitationKey:      strings.TrimSpace(raw.CitationKey),
		Tags:             raw.Tags,
		Notes:            raw.Notes,
	}
	if err := item.Validate(); err != nil {
		return domain.Item{}, fmt.Errorf("%w: %v", apperrors.ErrInvalidInput, err)
	}
	if raw.DateAdded != "" {
		added, err := time.Parse(time.RFC3339, raw.DateAdded)
		if err != nil {
			return domain.Item{}, fmt.Errorf("item %s date_added: %w: %v", raw.Key, apperrors.ErrInvalidInput, err)
		}
		item.DateAdded = added
	}
	for _, path := range raw.Collections {
		path = strings.Trim(path, "/")
		if path == "" {
			continue
		}
		item.CollectionPaths = append(item.CollectionPaths, path)
		item.Collections = append(item.Collections, path[strings.LastIndex(path, "/")+1:])
	}
	for _, key := range raw.Related {
		related := domain.Related{Key: key}
		if target, ok := byKey[key]; ok {
			related.Title = target.Title
			related.CitationKey = strings.TrimSpace(target.CitationKey)
		}
		item.Related = append(item.Related, related)
	}
	for _, a := range raw.Attachments {
		item.Attachments = append(item.Attachments, domain.Attachment{Key: a.Key, Title: a.Title, ContentType: a.ContentType, Path: a.Path})
	}
	if lib.CloudBase != "" {
		item.CloudURI = strings.TrimRight(lib.CloudBase, "/") + "/items/" + item.Key
	}
	return item, nil
}
