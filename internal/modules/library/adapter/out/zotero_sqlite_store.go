package out

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"mdnotes/internal/modules/library/domain"
	libraryout "mdnotes/internal/modules/library/port/out"
	apperrors "mdnotes/internal/platform/errors"

	_ "modernc.org/sqlite"
)

// ZoteroSQLiteStore reads items straight from a zotero.sqlite database. The
// database is opened read-only; attachments stored as "storage:<name>" are
// resolved against the storage directory next to it.
type ZoteroSQLiteStore struct {
	db      *sql.DB
	dataDir string
}

func NewZoteroSQLiteStore(dbPath string) (libraryout.ItemStore, error) {
	if _, err := os.Stat(dbPath); errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("zotero database %s: %w", dbPath, apperrors.ErrNotFound)
	}
	db, err := sql.Open("sqlite", "file:"+dbPath+"?mode=ro")
	if err != nil {
		return nil, fmt.Errorf("open zotero sqlite: %w", err)
	}
	return &ZoteroSQLiteStore{db: db, dataDir: filepath.Dir(dbPath)}, nil
}

func (s *ZoteroSQLiteStore) Close() error {
	return s.db.Close()
}

const zoteroDateLayout = "2006-01-02 15:04:05"

// Zotero stores dates as "<sql date> <as typed>", e.g. "1936-11-12 November
// 12, 1936" or "1936-00-00 1936".
var multipartDate = regexp.MustCompile(`^\d{4}-\d{2}-\d{2} `)

func displayDate(raw string) string {
	if loc := multipartDate.FindStringIndex(raw); loc != nil {
		return raw[loc[1]:]
	}
	return raw
}

type zoteroRow struct {
	id   int64
	item domain.Item
}

func (s *ZoteroSQLiteStore) List(ctx context.Context, selection domain.Selection) ([]domain.Item, error) {
	rows, err := s.loadItems(ctx)
	if err != nil {
		return nil, err
	}
	fields, err := s.loadFields(ctx)
	if err != nil {
		return nil, err
	}
	byID := make(map[int64]*domain.Item, len(rows))
	titleByKey := make(map[string]string, len(rows))
	for i := range rows {
		item := &rows[i].item
		f := fields[rows[i].id]
		item.Title = f["title"]
		item.Date = displayDate(f["date"])
		item.PublicationTitle = f["publicationTitle"]
		item.URL = f["url"]
		item.DOI = f["DOI"]
		item.Abstract = f["abstractNote"]
		item.Extra = f["extra"]
		item.CitationKey = strings.TrimSpace(f["citationKey"])
		byID[rows[i].id] = item
		titleByKey[item.Key] = item.Title
	}

	steps := []func(context.Context, map[int64]*domain.Item) error{
		s.loadCreators,
		s.loadTags,
		s.loadCollections,
		s.loadNotes,
		func(ctx context.Context, items map[int64]*domain.Item) error {
			return s.loadAttachments(ctx, items, fields)
		},
		func(ctx context.Context, items map[int64]*domain.Item) error {
			return s.loadRelations(ctx, items, titleByKey)
		},
	}
	for _, step := range steps {
		if err := step(ctx, byID); err != nil {
			return nil, err
		}
	}

	cloud, err := s.cloudBases(ctx)
	if err != nil {
		return nil, fmt.Errorf("load cloud libraries: %w", err)
	}
	out := []domain.Item{}
	for _, row := range rows {
		item := row.item
		if base, ok := cloud[item.LibraryID]; ok {
			item.CloudURI = base + "/items/" + item.Key
		}
		if selection.Matches(item) {
			out = append(out, item)
		}
	}
	return out, nil
}

func (s *ZoteroSQLiteStore) query(ctx context.Context, stmt string, scan func(*sql.Rows) error, args ...any) error {
	rows, err := s.db.QueryContext(ctx, stmt, args...)
	if err != nil {
		return fmt.Errorf("query zotero sqlite: %w", err)
	}
	defer func() { _ = rows.Close() }()
	for rows.Next() {
		if err := scan(rows); err != nil {
			return fmt.Errorf("scan zotero row: %w", err)
		}
	}
	return rows.Err()
}

func (s *ZoteroSQLiteStore) loadItems(ctx context.Context) ([]zoteroRow, error) {
	const stmt = `
SELECT i.itemID, i.key, i.libraryID, t.typeName, i.dateAdded
FROM items i
JOIN itemTypes t ON t.itemTypeID = i.itemTypeID
WHERE t.typeName NOT IN ('attachment', 'note', 'annotation')
  AND i.itemID NOT IN (SELECT itemID FROM deletedItems)
ORDER BY i.itemID;
`
	out := []zoteroRow{}
	err := s.query(ctx, stmt, func(rows *sql.Rows) error {
		var row zoteroRow
		var added string
		if err := rows.Scan(&row.id, &row.item.Key, &row.item.LibraryID, &row.item.Type, &added); err != nil {
			return err
		}
		if t, err := time.ParseInLocation(zoteroDateLayout, added, time.UTC); err == nil {
			row.item.DateAdded = t
		}
		out = append(out, row)
		return nil
	})
	return out, err
}

func (s *ZoteroSQLiteStore) loadFields(ctx context.Context) (map[int64]map[string]string, error) {
	const stmt = `
SELECT d.itemID, f.fieldName, v.value
FROM itemData d
JOIN fields f ON f.fieldID = d.fieldID
JOIN itemDataValues v ON v.valueID = d.valueID;
`
	out := map[int64]map[string]string{}
	err := s.query(ctx, stmt, func(rows *sql.Rows) error {
		var id int64
		var name, value string
		if err := rows.Scan(&id, &name, &value); err != nil {
			return err
		}
		if out[id] == nil {
			out[id] = map[string]string{}
		}
		out[id][name] = value
		return nil
	})
	return out, err
}

func (s *ZoteroSQLiteStore) loadCreators(ctx context.Context, items map[int64]*domain.Item) error {
	const stmt = `
SELECT ic.itemID, COALESCE(c.firstName, ''), COALESCE(c.lastName, ''), ct.creatorType
FROM itemCreators ic
JOIN creators c ON c.creatorID = ic.creatorID
JOIN creatorTypes ct ON ct.creatorTypeID = ic.creatorTypeID
ORDER BY ic.itemID, ic.orderIndex;
`
	creators := map[int64][]domain.Creator{}
	err := s.query(ctx, stmt, func(rows *sql.Rows) error {
		var id int64
		var c domain.Creator
		if err := rows.Scan(&id, &c.First, &c.Last, &c.Role); err != nil {
			return err
		}
		creators[id] = append(creators[id], c)
		return nil
	})
	if err != nil {
		return err
	}
	for id, list := range creators {
		if item, ok := items[id]; ok {
			item.Authors = domain.AuthorNames(list)
		}
	}
	return nil
}

func (s *ZoteroSQLiteStore) loadTags(ctx context.Context, items map[int64]*domain.Item) error {
	const stmt = `
SELECT it.itemID, t.name
FROM itemTags it
JOIN tags t ON t.tagID = it.tagID
ORDER BY it.itemID, t.name;
`
	return s.query(ctx, stmt, func(rows *sql.Rows) error {
		var id int64
		var name string
		if err := rows.Scan(&id, &name); err != nil {
			return err
		}
		if item, ok := items[id]; ok {
			item.Tags = append(item.Tags, name)
		}
		return nil
	})
}

func (s *ZoteroSQLiteStore) loadCollections(ctx context.Context, items map[int64]*domain.Item) error {
	type collection struct {
		name   string
		parent sql.NullInt64
	}
	all := map[int64]collection{}
	err := s.query(ctx, `SELECT collectionID, collectionName, parentCollectionID FROM collections;`, func(rows *sql.Rows) error {
		var id int64
		var c collection
		if err := rows.Scan(&id, &c.name, &c.parent); err != nil {
			return err
		}
		all[id] = c
		return nil
	})
	if err != nil {
		return err
	}
	pathOf := func(id int64) string {
		parts := []string{}
		seen := map[int64]bool{}
		for cur, ok := all[id]; ok && !seen[id]; cur, ok = all[id] {
			seen[id] = true
			parts = append([]string{cur.name}, parts...)
			if !cur.parent.Valid {
				break
			}
			id = cur.parent.Int64
		}
		return strings.Join(parts, "/")
	}

	const stmt = `
SELECT ci.itemID, ci.collectionID
FROM collectionItems ci
JOIN collections c ON c.collectionID = ci.collectionID
ORDER BY ci.itemID, c.collectionName;
`
	return s.query(ctx, stmt, func(rows *sql.Rows) error {
		var itemID, collectionID int64
		if err := rows.Scan(&itemID, &collectionID); err != nil {
			return err
		}
		item, ok := items[itemID]
		if !ok {
			return nil
		}
		item.Collections = append(item.Collections, all[collectionID].name)
		item.CollectionPaths = append(item.CollectionPaths, pathOf(collectionID))
		return nil
	})
}

func (s *ZoteroSQLiteStore) loadNotes(ctx context.Context, items map[int64]*domain.Item) error {
	const stmt = `
SELECT n.parentItemID, n.note
FROM itemNotes n
WHERE n.parentItemID IS NOT NULL
  AND n.itemID NOT IN (SELECT itemID FROM deletedItems)
ORDER BY n.parentItemID, n.itemID;
`
	return s.query(ctx, stmt, func(rows *sql.Rows) error {
		var parent int64
		var note string
		if err := rows.Scan(&parent, &note); err != nil {
			return err
		}
		if item, ok := items[parent]; ok {
			item.Notes = append(item.Notes, note)
		}
		return nil
	})
}

func (s *ZoteroSQLiteStore) loadAttachments(ctx context.Context, items map[int64]*domain.Item, fields map[int64]map[string]string) error {
	const stmt = `
SELECT a.itemID, a.parentItemID, i.key, COALESCE(a.contentType, ''), COALESCE(a.path, '')
FROM itemAttachments a
JOIN items i ON i.itemID = a.itemID
WHERE a.parentItemID IS NOT NULL
  AND a.itemID NOT IN (SELECT itemID FROM deletedItems)
ORDER BY a.parentItemID, a.itemID;
`
	return s.query(ctx, stmt, func(rows *sql.Rows) error {
		var id, parent int64
		var a domain.Attachment
		if err := rows.Scan(&id, &parent, &a.Key, &a.ContentType, &a.Path); err != nil {
			return err
		}
		item, ok := items[parent]
		if !ok {
			return nil
		}
		a.Title = fields[id]["title"]
		a.Path = s.resolveAttachmentPath(a.Key, a.Path)
		item.Attachments = append(item.Attachments, a)
		return nil
	})
}

func (s *ZoteroSQLiteStore) resolveAttachmentPath(key, path string) string {
	if name, ok := strings.CutPrefix(path, "storage:"); ok {
		return filepath.Join(s.dataDir, "storage", key, name)
	}
	return path
}

func (s *ZoteroSQLiteStore) loadRelations(ctx context.Context, items map[int64]*domain.Item, titleByKey map[string]string) error {
	const stmt = `
SELECT r.itemID, r.object
FROM itemRelations r
JOIN relationPredicates p ON p.predicateID = r.predicateID
WHERE p.predicate = 'dc:relation'
ORDER BY r.itemID, r.object;
`
	return s.query(ctx, stmt, func(rows *sql.Rows) error {
		var id int64
		var object string
		if err := rows.Scan(&id, &object); err != nil {
			return err
		}
		item, ok := items[id]
		if !ok {
			return nil
		}
		key := object[strings.LastIndex(object, "/")+1:]
		item.Related = append(item.Related, domain.Related{Key: key, Title: titleByKey[key]})
		return nil
	})
}

// cloudBases maps library ids to their web library URI. Databases that never
// synced have no entry; older schemas without the settings or groups tables
// yield an empty map.
func (s *ZoteroSQLiteStore) cloudBases(ctx context.Context) (map[int]string, error) {
	out := map[int]string{}
	var userID string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM settings WHERE setting = 'account' AND key = 'userID';`).Scan(&userID)
	switch {
	case err == nil && userID != "":
		err = s.query(ctx, `SELECT libraryID FROM libraries WHERE type = 'user';`, func(rows *sql.Rows) error {
			var libraryID int
			if err := rows.Scan(&libraryID); err != nil {
				return err
			}
			out[libraryID] = "http://zotero.org/users/" + userID
			return nil
		})
		if err != nil && !missingTable(err) {
			return nil, err
		}
	case err != nil && !errors.Is(err, sql.ErrNoRows) && !missingTable(err):
		return nil, fmt.Errorf("read account setting: %w", err)
	}

	err = s.query(ctx, `SELECT libraryID, groupID FROM "groups";`, func(rows *sql.Rows) error {
		var libraryID int
		var groupID int64
		if err := rows.Scan(&libraryID, &groupID); err != nil {
			return err
		}
		out[libraryID] = fmt.Sprintf("http://zotero.org/groups/%d", groupID)
		return nil
	})
	if err != nil && !missingTable(err) {
		return nil, err
	}
	return out, nil
}

func missingTable(err error) bool {
	return strings.Contains(err.Error(), "no such table")
}
