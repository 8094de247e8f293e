package integration

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/docsift/docsift/internal/docstore"
	"github.com/docsift/docsift/internal/embedder"
	"github.com/docsift/docsift/internal/inference"
	"github.com/docsift/docsift/internal/ingest"
	mcpserver "github.com/docsift/docsift/internal/mcp"
	"github.com/docsift/docsift/internal/retriever"
	"github.com/docsift/docsift/internal/summarizer"
	"github.com/docsift/docsift/internal/validator"
)

const assignment = `Course Assignment Overview

Problem Statement 1: Design a URL shortener.
The service maps long URLs to short codes and must resolve a short code back to its original URL in constant time.
Collisions between generated codes must be detected and retried.

Problem Statement 2: Design a job scheduler.
Jobs carry priorities and the scheduler always runs the highest priority runnable job.
Starvation of low priority jobs must be prevented with an aging mechanism.

Problem Statement 3: Design a log compactor.
Segments are merged in the background and tombstones are dropped once they are older than the retention window.`

// PipelineTestSuite runs the full document flow end to end: ingest,
// persist, query, summarize, validate.
type PipelineTestSuite struct {
	suite.Suite
	ctx      context.Context
	store    docstore.Store
	pipeline *ingest.Pipeline
	engine   *retriever.Engine
	summ     *summarizer.Summarizer
	valid    *validator.Validator
	docID    string
}

func (s *PipelineTestSuite) SetupTest() {
	s.ctx = context.Background()

	store, err := docstore.NewSQLiteStore(":memory:")
	s.Require().NoError(err)
	s.store = store

	emb := embedder.NewLocalEmbedder(embedder.NewCache(100))
	model := inference.NewLocalModel()

	s.pipeline = ingest.New(emb)
	s.engine = retriever.New(emb, model)
	s.summ = summarizer.New(model)
	s.valid = validator.New(emb)

	doc, err := s.pipeline.Ingest(s.ctx, "assignment.pdf", assignment)
	s.Require().NoError(err)
	s.Require().NoError(s.store.Put(s.ctx, doc))
	s.docID = doc.ID
}

func (s *PipelineTestSuite) TearDownTest() {
	s.Require().NoError(s.store.Close())
}

func (s *PipelineTestSuite) TestSectionsSurviveRoundTrip() {
	doc, err := s.store.Get(s.ctx, s.docID)
	s.Require().NoError(err)

	titles := doc.SectionTitles()
	// Preamble before the first heading becomes a leading Document section.
	s.Require().Len(titles, 4)
	s.Equal("Document", titles[0])
	s.Equal("problem statement 1", doc.Sections[1].StdTitle)
	s.Equal("problem statement 3", doc.Sections[3].StdTitle)
	s.Len(doc.Embeddings, len(doc.Chunks))
}

func (s *PipelineTestSuite) TestSectionScopedQuery() {
	doc, err := s.store.Get(s.ctx, s.docID)
	s.Require().NoError(err)

	result, err := s.engine.Retrieve(s.ctx, retriever.Request{
		Chunks:     doc.Chunks,
		Embeddings: doc.Embeddings,
		Query:      "problem statement 2: how is starvation prevented",
	})
	s.Require().NoError(err)

	s.Equal("Problem Statement 2", result.SourceSection)
	s.True(strings.HasPrefix(result.Answer, "From Problem Statement 2: "))
	s.Contains(result.Answer, "aging")
}

func (s *PipelineTestSuite) TestUnknownSectionFallsBackGlobally() {
	doc, err := s.store.Get(s.ctx, s.docID)
	s.Require().NoError(err)

	result, err := s.engine.Retrieve(s.ctx, retriever.Request{
		Chunks:     doc.Chunks,
		Embeddings: doc.Embeddings,
		Query:      "problem statement 7: anything at all",
	})
	s.Require().NoError(err)

	s.Empty(result.SourceSection)
	s.False(strings.HasPrefix(result.Answer, "From "))
}

func (s *PipelineTestSuite) TestSummarizeAndValidateStoredDocument() {
	doc, err := s.store.Get(s.ctx, s.docID)
	s.Require().NoError(err)

	summary := s.summ.Summarize(s.ctx, doc.FullText, 0)
	s.NotEmpty(summary)
	s.NotEqual(summarizer.TooShortMessage, summary)

	validation, err := s.valid.Validate(s.ctx, summary, doc.FullText, 0)
	s.Require().NoError(err)
	s.NotEmpty(validation.Message)
	s.GreaterOrEqual(validation.Score, validation.AvgScore)
}

func (s *PipelineTestSuite) TestQueryAwareValidation() {
	doc, err := s.store.Get(s.ctx, s.docID)
	s.Require().NoError(err)

	query := "how does the scheduler pick jobs"
	validation, err := s.valid.ValidateWithQuery(s.ctx, query, query, doc.Chunks, doc.Embeddings, 0)
	s.Require().NoError(err)

	s.InDelta(1.0, validation.QueryRelevance, 1e-5)
}

func (s *PipelineTestSuite) TestQuerySummaryFlow() {
	doc, err := s.store.Get(s.ctx, s.docID)
	s.Require().NoError(err)

	query := "problem statement 3: when are tombstones dropped"
	chunks, scores, err := s.engine.TopChunks(s.ctx, retriever.Request{
		Chunks:     doc.Chunks,
		Embeddings: doc.Embeddings,
		Query:      query,
	}, 2)
	s.Require().NoError(err)
	s.Require().NotEmpty(chunks)
	s.Len(scores, len(chunks))

	// The identifier restricts retrieval to section 3 chunks.
	for _, c := range chunks {
		s.Equal("3", c.SectionNum)
	}

	texts := make([]string, len(chunks))
	for i, c := range chunks {
		texts[i] = c.Text
	}
	summary := s.summ.Summarize(s.ctx, strings.Join(texts, " "), 0)
	s.NotEmpty(summary)

	validation, err := s.valid.ValidateWithQuery(s.ctx, summary, query, doc.Chunks, doc.Embeddings, 0)
	s.Require().NoError(err)
	s.NotEmpty(validation.Message)
}

func (s *PipelineTestSuite) TestMCPServerWiring() {
	server := mcpserver.NewServerWith(docstore.NewMemoryStore(), embedder.NewLocalEmbedder(nil), inference.NewLocalModel())
	s.NotNil(server)
}

func TestPipelineSuite(t *testing.T) {
	suite.Run(t, new(PipelineTestSuite))
}
