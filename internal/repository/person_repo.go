package repository

import (
	"context"
	"fmt"

	"github.com/chabro2633/diary-korean/internal/db"
	"github.com/chabro2633/diary-korean/internal/model"
)

type PersonRepo struct {
	db db.DB
}

func NewPersonRepo(d db.DB) *PersonRepo {
	return &PersonRepo{db: d}
}

// Upsert registers a person by Korean name and returns its id.
func (r *PersonRepo) Upsert(ctx context.Context, p *model.Person) (int64, error) {
	var id int64
	err := r.db.QueryRow(ctx, `
		INSERT INTO persons (name_ko, name_en, group_name, category, image_url)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (name_ko) DO UPDATE SET
			name_en = COALESCE(excluded.name_en, persons.name_en),
			group_name = COALESCE(excluded.group_name, persons.group_name),
			category = COALESCE(excluded.category, persons.category),
			image_url = COALESCE(excluded.image_url, persons.image_url)
		RETURNING id`,
		p.NameKo, val(p.NameEn), val(p.GroupName), val(p.Category), val(p.ImageURL),
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("upsert person %q: %w", p.NameKo, err)
	}
	p.ID = id
	return id, nil
}

// Link associates a person with a video. Linking twice is a no-op.
func (r *PersonRepo) Link(ctx context.Context, videoID string, personID int64) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO video_persons (video_id, person_id) VALUES (?, ?)
		ON CONFLICT (video_id, person_id) DO NOTHING`, videoID, personID)
	return err
}

// ListByVideo returns the people linked to a video, by Korean name.
func (r *PersonRepo) ListByVideo(ctx context.Context, videoID string) ([]model.Person, error) {
	rows, err := r.db.Query(ctx, `
		SELECT p.id, p.name_ko, p.name_en, p.group_name, p.category, p.image_url, p.created_at
		FROM persons p
		JOIN video_persons vp ON vp.person_id = p.id
		WHERE vp.video_id = ?
		ORDER BY p.name_ko ASC`, videoID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	persons := []model.Person{}
	for rows.Next() {
		var p model.Person
		if err := rows.Scan(&p.ID, &p.NameKo, &p.NameEn, &p.GroupName, &p.Category, &p.ImageURL, &p.CreatedAt); err != nil {
			return nil, err
		}
		persons = append(persons, p)
	}
	return persons, rows.Err()
}
