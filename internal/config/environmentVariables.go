package config

import (
	"log/slog"
	"time"
)

const (
	IS_PROD        = false
	LOG_LEVEL_PROD = slog.LevelInfo
	TRACE_ID_KEY   = "traceId"

	RATE_LIMIT_PER_SECOND       = 2
	BURST_RATE_LIMIT_PER_SECOND = 5

	//embeddings
	//dimension matches whatever the local embed service produces;
	//fallback vectors are generated at this length too
	EmbeddingDimension    int32 = 1024
	EmbeddingServiceURL         = "http://localhost:4000/embed"
	EmbeddingCallTimeout        = 15 * time.Second
	EmbeddingProvider           = "http" //"http" or "google"
	GoogleEmbeddingModel        = "gemini-embedding-001"
	GoogleEmbeddingAPIKey       = ""

	//ocr
	OcrServiceURL  = "http://localhost:4001/ocr"
	OcrCallTimeout = 10 * time.Second

	//vector index (optional enrichment, pipeline runs without it)
	VectorIndexEnabled   = false
	VectorCollectionName = "ingested-chunks"
	QdrantHost           = ""
	QdrantGrpcPort       = 6334
	QdrantUseTLS         = false
	QdrantPoolSize       = 1

	//worker pool
	RequestsPerNewWorkerCount int64 = 10
	MaxWorkerCount            int64 = 10
	MinWorkerCount            int64 = 1
	IdleWorkerTimeout               = 1 * time.Minute

	//job requests buffer limit
	BufferLimit = 100

	//how long a single job run may take end to end
	JobExecutionTimeout = 10 * time.Minute

	//serverTimeouts
	ReadTimeout            = 5 * time.Second
	WriteTimeout           = 15 * time.Second
	IdleTimeout            = 120 * time.Second
	ShutdownContextTimeout = 10 * time.Second

	//server listening port
	ServerListenAddr = ":3000"

	//outbound http pooling
	MaxIdleConns        = 50
	MaxIdleConnsPerHost = 25
	IdleConnTimeout     = 60 * time.Second
	FetchTimeout        = 60 * time.Second

	//redis
	redisHost     = "127.0.0.1"
	redisPort     = "6379"
	RedisAddr     = redisHost + ":" + redisPort
	RedisPassword = ""

	//redis has 16 DB we can use
	RedisJobStore      = 0
	RedisDocumentStore = 1

	//records never expire on their own, deletion is explicit
	RedisRecordTTL = time.Duration(0)

	//if redis init fails, it falls back to an internal in-memory store
	FALLBACK_REDIS_TO_INTERNALSTORE = true

	//websocket
	WsReadBufferSize  = 1024
	WsWriteBufferSize = 4096
	WsWriteTimeout    = 5 * time.Second
)
