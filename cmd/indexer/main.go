package main

import (
	"context"
	"log"
	"os"

	"github.com/erickyegon/finsolve-rag-rbac-assistant-sub000/internal/bootstrap"
	"github.com/erickyegon/finsolve-rag-rbac-assistant-sub000/internal/config"
	"github.com/erickyegon/finsolve-rag-rbac-assistant-sub000/pkg/corpus"
	"github.com/erickyegon/finsolve-rag-rbac-assistant-sub000/pkg/docindex"
	"github.com/erickyegon/finsolve-rag-rbac-assistant-sub000/pkg/embedding"
)

// Walks the corpus catalog, chunks every text document and writes embedded
// chunks into the document index. Safe to re-run: chunks are replaced per
// source.
func main() {
	cfg := config.Load()

	container := bootstrap.NewContainer(cfg)
	defer container.Close()

	ctx := context.Background()
	indexed := 0

	for _, src := range container.Catalog.All() {
		if src.Kind == corpus.KindCSV {
			// Tabular sources are served by the accessor, not the index.
			continue
		}

		content, err := os.ReadFile(src.Path)
		if err != nil {
			log.Printf("[WARN] Skipping %s: %v", src.Key, err)
			continue
		}

		chunks := container.Chunker.Split(docindex.Source{
			Key:         src.Key,
			Department:  src.Department,
			Sensitivity: src.Sensitivity,
			AccessRoles: src.AccessRoles,
		}, string(content))
		for i := range chunks {
			vector, err := container.Embedder.Embed(ctx, chunks[i].Content, embedding.TaskDocument)
			if err != nil {
				log.Fatalf("[FATAL] Embedding failed for %s: %v", chunks[i].ID, err)
			}
			chunks[i].Embedding = vector
		}

		if err := container.Index.Upsert(ctx, chunks); err != nil {
			log.Fatalf("[FATAL] Index write failed for %s: %v", src.Key, err)
		}
		indexed += len(chunks)
		log.Printf("[INFO] Indexed %s: %d chunks", src.Key, len(chunks))
	}

	total, err := container.Index.Count(ctx)
	if err != nil {
		log.Printf("[WARN] Could not count index: %v", err)
	}
	log.Printf("[INFO] Indexing complete: %d chunks written, %d total in index", indexed, total)
}
