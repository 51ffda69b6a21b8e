package docindex

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
	"gorm.io/gorm"

	"github.com/erickyegon/finsolve-rag-rbac-assistant-sub000/pkg/auth"
)

type documentChunkModel struct {
	Id             uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ChunkId        string          `gorm:"type:varchar(255);uniqueIndex;not null"`
	SourceKey      string          `gorm:"type:varchar(255);not null;index"`
	Department     string          `gorm:"type:varchar(64);not null;index"`
	Section        string          `gorm:"type:varchar(255)"`
	ChunkIndex     int             `gorm:"default:0"`
	Content        string          `gorm:"type:text"`
	Sensitivity    string          `gorm:"type:varchar(16);index"`
	AccessRoles    string          `gorm:"type:varchar(255)"` // comma-joined allowlist
	EmbeddingValue pgvector.Vector `gorm:"type:vector(768)"` // text-embedding-004 uses 768 dimensions
	CreatedAt      time.Time       `gorm:"autoCreateTime"`
	UpdatedAt      time.Time       `gorm:"autoUpdateTime"`
}

func (documentChunkModel) TableName() string {
	return "document_chunks"
}

// PGIndex stores chunks in Postgres with pgvector and pushes the department
// allow list into the SQL itself, so rows a role may not see never leave the
// database.
type PGIndex struct {
	db      *gorm.DB
	options SearchOptions
}

func NewPGIndex(db *gorm.DB, options SearchOptions) *PGIndex {
	return &PGIndex{db: db, options: options}
}

// Migrate creates the chunk table. The pgvector extension must already exist.
func (x *PGIndex) Migrate() error {
	return x.db.AutoMigrate(&documentChunkModel{})
}

func (x *PGIndex) Search(ctx context.Context, embedding []float32, departments []string, limit int) ([]Hit, error) {
	if len(departments) == 0 {
		return nil, nil
	}
	if limit <= 0 {
		limit = x.options.Limit
	}

	// Cosine distance in pgvector is 1 - cosine_similarity, so
	// 1 - (embedding_value <=> query) recovers the similarity.
	type row struct {
		documentChunkModel
		Similarity float64
	}
	var rows []row

	queryVector := pgvector.NewVector(embedding)

	err := x.db.WithContext(ctx).
		Table("document_chunks").
		Select("document_chunks.*, 1 - (embedding_value <=> ?) as similarity", queryVector).
		Where("department IN ?", departments).
		Where("1 - (embedding_value <=> ?) >= ?", queryVector, x.options.Threshold).
		Order("similarity DESC").
		Limit(limit).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	hits := make([]Hit, len(rows))
	for i, r := range rows {
		hits[i] = Hit{
			Chunk: Chunk{
				ID:          r.ChunkId,
				SourceKey:   r.SourceKey,
				Department:  r.Department,
				Section:     r.Section,
				ChunkIndex:  r.ChunkIndex,
				Content:     r.Content,
				Sensitivity: auth.Sensitivity(r.Sensitivity),
				AccessRoles: splitRoles(r.AccessRoles),
			},
			Similarity: r.Similarity,
		}
	}
	return AssignRanks(hits), nil
}

func joinRoles(roles []auth.Role) string {
	parts := make([]string, len(roles))
	for i, r := range roles {
		parts[i] = string(r)
	}
	return strings.Join(parts, ",")
}

func splitRoles(joined string) []auth.Role {
	if joined == "" {
		return nil
	}
	parts := strings.Split(joined, ",")
	roles := make([]auth.Role, len(parts))
	for i, p := range parts {
		roles[i] = auth.Role(p)
	}
	return roles
}

func (x *PGIndex) Upsert(ctx context.Context, chunks []Chunk) error {
	if len(chunks) == 0 {
		return nil
	}
	models := make([]*documentChunkModel, len(chunks))
	for i, c := range chunks {
		models[i] = &documentChunkModel{
			ChunkId:        c.ID,
			SourceKey:      c.SourceKey,
			Department:     c.Department,
			Section:        c.Section,
			ChunkIndex:     c.ChunkIndex,
			Content:        c.Content,
			Sensitivity:    string(c.Sensitivity),
			AccessRoles:    joinRoles(c.AccessRoles),
			EmbeddingValue: pgvector.NewVector(c.Embedding),
		}
	}
	// Re-indexing a source replaces its chunks wholesale, so a plain
	// delete-then-create inside one transaction is enough.
	return x.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		seen := make(map[string]bool)
		for _, c := range chunks {
			if seen[c.SourceKey] {
				continue
			}
			seen[c.SourceKey] = true
			if err := tx.Where("source_key = ?", c.SourceKey).
				Delete(&documentChunkModel{}).Error; err != nil {
				return err
			}
		}
		return tx.Create(models).Error
	})
}

func (x *PGIndex) DeleteBySource(ctx context.Context, sourceKey string) error {
	return x.db.WithContext(ctx).
		Where("source_key = ?", sourceKey).
		Delete(&documentChunkModel{}).Error
}

func (x *PGIndex) Count(ctx context.Context) (int64, error) {
	var count int64
	err := x.db.WithContext(ctx).Model(&documentChunkModel{}).Count(&count).Error
	return count, err
}
