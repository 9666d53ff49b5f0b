package repositories

import (
	"context"
	"database/sql"
	"strings"

	intconfig "backoffice/internal/config"
	intdb "backoffice/internal/db"
	"backoffice/internal/domain/models"
)

const (
	mediaTable           = "media"
	mediaTagsTable       = "media_tags"
	mediaCategoriesTable = "media_categories"
)

const mediaColumns = `
	media_id,
	COALESCE(title,'') AS title,
	COALESCE(file_path,'') AS file_path,
	COALESCE(mime_type,'') AS mime_type,
	COALESCE(file_size,0) AS file_size,
	COALESCE(uploaded_by,'') AS uploaded_by,
	COALESCE(alt_text,'') AS alt_text,
	COALESCE(caption,'') AS caption,
	COALESCE(description,'') AS description,
	COALESCE(DATE_FORMAT(created_at, '%Y-%m-%d %H:%i:%s'),'') AS created_at`

type MediaRepository struct {
	DB *sql.DB
}

func (r MediaRepository) db() *sql.DB {
	if r.DB != nil {
		return r.DB
	}
	return intconfig.DB
}

// mimeCondition turns the UI type filter into a WHERE fragment.
// "document" means PDF, a value with a slash is exact, anything else is a prefix.
func mimeCondition(t string) (string, any, bool) {
	t = strings.TrimSpace(t)
	switch {
	case t == "" || strings.EqualFold(t, "all"):
		return "", nil, false
	case strings.EqualFold(t, "document"):
		return "mime_type = ?", "application/pdf", true
	case strings.Contains(t, "/"):
		return "mime_type = ?", t, true
	default:
		return "mime_type LIKE ?", t + "/%", true
	}
}

func (r MediaRepository) List(ctx context.Context, f models.MediaFilter) ([]models.Media, error) {
	conds := []string{}
	args := []any{}
	if s := strings.TrimSpace(f.Search); s != "" {
		conds = append(conds, "LOWER(title) LIKE ?")
		args = append(args, "%"+strings.ToLower(s)+"%")
	}
	if cond, arg, ok := mimeCondition(f.Type); ok {
		conds = append(conds, cond)
		args = append(args, arg)
	}
	if c := strings.TrimSpace(f.Category); c != "" && !strings.EqualFold(c, "all") {
		if !intdb.HasTable(r.db(), mediaCategoriesTable) {
			return []models.Media{}, nil
		}
		conds = append(conds, "EXISTS (SELECT 1 FROM "+mediaCategoriesTable+" mc WHERE mc.media_id = m.media_id AND mc.category_name = ?)")
		args = append(args, c)
	}

	q := "SELECT " + mediaColumns + " FROM " + mediaTable + " m"
	if len(conds) > 0 {
		q += " WHERE " + strings.Join(conds, " AND ")
	}
	q += " ORDER BY created_at DESC"

	out := []models.Media{}
	if err := intdb.X(r.db()).SelectContext(ctx, &out, q, args...); err != nil {
		return nil, err
	}
	if err := r.attachLabels(ctx, out); err != nil {
		return nil, err
	}
	return out, nil
}

func (r MediaRepository) Get(ctx context.Context, id string) (models.Media, error) {
	var m models.Media
	if err := intdb.X(r.db()).GetContext(ctx, &m, "SELECT "+mediaColumns+" FROM "+mediaTable+" WHERE media_id = ?", id); err != nil {
		return m, err
	}
	list := []models.Media{m}
	if err := r.attachLabels(ctx, list); err != nil {
		return m, err
	}
	return list[0], nil
}

// attachLabels fills Tags and Categories; missing label tables leave them empty.
func (r MediaRepository) attachLabels(ctx context.Context, items []models.Media) error {
	for i := range items {
		items[i].Tags = []string{}
		items[i].Categories = []string{}
	}
	if len(items) == 0 {
		return nil
	}
	ids := make([]string, 0, len(items))
	idx := map[string]int{}
	for i, m := range items {
		ids = append(ids, m.MediaID)
		idx[m.MediaID] = i
	}

	load := func(table, col string, add func(i int, v string)) error {
		if !intdb.HasTable(r.db(), table) {
			return nil
		}
		q, args, err := intdb.In("SELECT media_id, "+col+" FROM "+table+" WHERE media_id IN (?) ORDER BY "+col, ids)
		if err != nil {
			return err
		}
		rows, err := r.db().QueryContext(ctx, q, args...)
		if err != nil {
			return err
		}
		defer rows.Close()
		for rows.Next() {
			var id, v string
			if err := rows.Scan(&id, &v); err != nil {
				return err
			}
			if i, ok := idx[id]; ok {
				add(i, v)
			}
		}
		return rows.Err()
	}

	if err := load(mediaTagsTable, "tag_name", func(i int, v string) { items[i].Tags = append(items[i].Tags, v) }); err != nil {
		return err
	}
	return load(mediaCategoriesTable, "category_name", func(i int, v string) { items[i].Categories = append(items[i].Categories, v) })
}

func (r MediaRepository) Insert(ctx context.Context, m models.Media) error {
	_, err := intdb.X(r.db()).NamedExecContext(ctx, `
		INSERT INTO `+mediaTable+` (media_id, title, file_path, mime_type, file_size, uploaded_by, alt_text, caption, description, created_at)
		VALUES (:media_id, :title, :file_path, :mime_type, :file_size, NULLIF(:uploaded_by,''), :alt_text, :caption, :description, NOW())`, m)
	return err
}

func (r MediaRepository) Update(ctx context.Context, id string, f intdb.Fields) (int64, error) {
	if len(f) == 0 {
		return 0, nil
	}
	q, args := intdb.UpdateSQL(mediaTable, f, "media_id = ?", id)
	res, err := r.db().ExecContext(ctx, q, args...)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// ReplaceTags swaps the label set of one kind; a missing label table is skipped.
func (r MediaRepository) ReplaceTags(ctx context.Context, id string, tags []string) error {
	return r.replaceLabels(ctx, mediaTagsTable, "tag_name", id, tags)
}

func (r MediaRepository) ReplaceCategories(ctx context.Context, id string, cats []string) error {
	return r.replaceLabels(ctx, mediaCategoriesTable, "category_name", id, cats)
}

func (r MediaRepository) replaceLabels(ctx context.Context, table, col, id string, values []string) error {
	if !intdb.HasTable(r.db(), table) {
		return nil
	}
	tx, err := r.db().BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()
	if _, err := tx.ExecContext(ctx, "DELETE FROM "+table+" WHERE media_id = ?", id); err != nil {
		return err
	}
	for _, v := range values {
		if _, err := tx.ExecContext(ctx, "INSERT INTO "+table+" (media_id, "+col+") VALUES (?, ?)", id, v); err != nil {
			return err
		}
	}
	return tx.Commit()
}

func (r MediaRepository) Delete(ctx context.Context, id string) (int64, error) {
	for _, table := range []string{mediaTagsTable, mediaCategoriesTable} {
		if intdb.HasTable(r.db(), table) {
			if _, err := r.db().ExecContext(ctx, "DELETE FROM "+table+" WHERE media_id = ?", id); err != nil {
				return 0, err
			}
		}
	}
	res, err := r.db().ExecContext(ctx, "DELETE FROM "+mediaTable+" WHERE media_id = ?", id)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
