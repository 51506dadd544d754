package store

import (
	"context"
	"encoding/json"
	"sort"
	"strings"

	"github.com/ritvikra/PDFEmbedder/internal/config"
	"github.com/ritvikra/PDFEmbedder/internal/data/redisStore"
	"github.com/ritvikra/PDFEmbedder/internal/domain/docModel"
	"github.com/ritvikra/PDFEmbedder/internal/domain/jobModel"
	"github.com/ritvikra/PDFEmbedder/pkg/logger_i"
)

const (
	docKeyPrefix    = "doc:"
	docIndexKey     = "docs:all"
	docJobKeyPrefix = "docs:job:"
)

type RedisDocumentStore struct {
	store  *redisStore.Store
	logger *logger_i.Logger
}

func GetRedisDocumentStore(ctx context.Context) *RedisDocumentStore {
	inner := redisStore.GetRedisStore(ctx, config.RedisDocumentStore)
	if inner == nil {
		return nil
	}
	return &RedisDocumentStore{
		store:  inner,
		logger: logger_i.NewLogger("DocumentStore"),
	}
}

func (s *RedisDocumentStore) SaveDocument(ctx context.Context, doc docModel.Document) error {
	log := s.logger.With("traceId", ctx.Value(config.TRACE_ID_KEY), "doc Id", doc.Id)
	log.Debug("saving document")
	data, err := json.Marshal(doc)
	if err != nil {
		return err
	}

	if err = s.store.Set(ctx, docKeyPrefix+doc.Id, data, config.RedisRecordTTL); err != nil {
		return err
	}
	if err = s.store.SetAdd(ctx, docIndexKey, doc.Id); err != nil {
		return err
	}
	return s.store.SetAdd(ctx, docJobKeyPrefix+doc.JobId, doc.Id)
}

func (s *RedisDocumentStore) GetDocument(ctx context.Context, docId string) (docModel.Document, bool) {
	var doc docModel.Document
	val, err := s.store.Get(ctx, docKeyPrefix+docId)
	if s.store.IsNil(err) {
		return doc, false
	} else if err != nil {
		s.logger.Error("Error reading document from Redis", "docId", docId, "error", err)
		return doc, false
	}

	if err = json.Unmarshal([]byte(val), &doc); err != nil {
		s.logger.Error("Error unmarshalling document", "docId", docId, "error", err)
		return doc, false
	}
	return doc, true
}

func (s *RedisDocumentStore) DeleteDocument(ctx context.Context, docId string) error {
	doc, found := s.GetDocument(ctx, docId)
	if err := s.store.Del(ctx, docKeyPrefix+docId); err != nil {
		return err
	}
	if err := s.store.SetRemove(ctx, docIndexKey, docId); err != nil {
		return err
	}
	if found {
		return s.store.SetRemove(ctx, docJobKeyPrefix+doc.JobId, docId)
	}
	return nil
}

func (s *RedisDocumentStore) ListDocuments(ctx context.Context) ([]docModel.Document, error) {
	return s.list(ctx, docIndexKey, func(docModel.Document) bool { return true })
}

func (s *RedisDocumentStore) ListDocumentsByJobId(ctx context.Context, jobId string) ([]docModel.Document, error) {
	return s.list(ctx, docJobKeyPrefix+jobId, func(docModel.Document) bool { return true })
}

func (s *RedisDocumentStore) ListDocumentsByType(ctx context.Context, jobType jobModel.JobType) ([]docModel.Document, error) {
	return s.list(ctx, docIndexKey, func(d docModel.Document) bool { return d.Type == jobType })
}

func (s *RedisDocumentStore) ListDocumentsByUrl(ctx context.Context, url string) ([]docModel.Document, error) {
	return s.list(ctx, docIndexKey, func(d docModel.Document) bool { return d.Url == url })
}

func (s *RedisDocumentStore) SearchDocuments(ctx context.Context, query string) ([]docModel.Document, error) {
	needle := strings.ToLower(query)
	return s.list(ctx, docIndexKey, func(d docModel.Document) bool {
		return strings.Contains(strings.ToLower(d.ExtractedText), needle)
	})
}

func (s *RedisDocumentStore) DeleteDocumentsByJobId(ctx context.Context, jobId string) error {
	ids, err := s.store.SetMembers(ctx, docJobKeyPrefix+jobId)
	if err != nil {
		return err
	}
	for _, id := range ids {
		if err = s.store.Del(ctx, docKeyPrefix+id); err != nil {
			return err
		}
		if err = s.store.SetRemove(ctx, docIndexKey, id); err != nil {
			return err
		}
	}
	return s.store.Del(ctx, docJobKeyPrefix+jobId)
}

func (s *RedisDocumentStore) list(ctx context.Context, indexKey string, keep func(docModel.Document) bool) ([]docModel.Document, error) {
	ids, err := s.store.SetMembers(ctx, indexKey)
	if err != nil {
		return nil, err
	}

	docs := make([]docModel.Document, 0, len(ids))
	for _, id := range ids {
		doc, found := s.GetDocument(ctx, id)
		if found && keep(doc) {
			docs = append(docs, doc)
		}
	}

	sort.SliceStable(docs, func(i, j int) bool {
		return docs[i].CreatedAt.After(docs[j].CreatedAt)
	})
	return docs, nil
}

func TestDocumentStore(store *redisStore.Store) *RedisDocumentStore {
	return &RedisDocumentStore{
		store:  store,
		logger: logger_i.NewLogger("test redis docs"),
	}
}
