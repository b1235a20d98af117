package services

import (
	"context"
	"log"
	"strings"

	"hireflow/resume-screener/internal/models"
)

// ProfileIndexer embeds candidate profiles and keeps the vector index
// in step with the relational store. Indexing is best effort: a failed
// upsert is logged, never surfaced to the submission that triggered it.
type ProfileIndexer interface {
	IndexCandidate(ctx context.Context, candidate *models.Candidate)
	SimilarTo(ctx context.Context, candidate *models.Candidate, limit int) ([]models.SimilarCandidate, error)
}

type profileIndexer struct {
	gemini GeminiService
	qdrant QdrantService
}

func NewProfileIndexer(gemini GeminiService, qdrant QdrantService) ProfileIndexer {
	return &profileIndexer{
		gemini: gemini,
		qdrant: qdrant,
	}
}

// IndexCandidate implements ProfileIndexer.
func (p *profileIndexer) IndexCandidate(ctx context.Context, candidate *models.Candidate) {
	text := profileText(candidate)
	if text == "" {
		return
	}

	embedding, err := p.gemini.GenerateEmbedding(ctx, text)
	if err != nil {
		log.Printf("⚠️  Failed to embed candidate %s profile: %v\n", candidate.ID, err)
		return
	}

	summary := ""
	if candidate.ProfileSummary != nil {
		summary = *candidate.ProfileSummary
	}

	if err := p.qdrant.UpsertCandidate(ctx, candidate.ID.String(), candidate.Name, summary, embedding); err != nil {
		log.Printf("⚠️  Failed to index candidate %s profile: %v\n", candidate.ID, err)
	}
}

// SimilarTo implements ProfileIndexer. The candidate itself is dropped
// from its own result set.
func (p *profileIndexer) SimilarTo(ctx context.Context, candidate *models.Candidate, limit int) ([]models.SimilarCandidate, error) {
	text := profileText(candidate)

	embedding, err := p.gemini.GenerateEmbedding(ctx, text)
	if err != nil {
		return nil, err
	}

	hits, err := p.qdrant.SearchSimilar(ctx, embedding, limit+1)
	if err != nil {
		return nil, err
	}

	results := make([]models.SimilarCandidate, 0, limit)
	for _, hit := range hits {
		if hit.CandidateID == candidate.ID.String() {
			continue
		}
		results = append(results, models.SimilarCandidate{
			CandidateID: hit.CandidateID,
			Name:        hit.Name,
			Score:       hit.Score,
		})
		if len(results) == limit {
			break
		}
	}
	return results, nil
}

func profileText(candidate *models.Candidate) string {
	parts := []string{candidate.Name}
	if candidate.Designation != nil {
		parts = append(parts, *candidate.Designation)
	}
	if candidate.Company != nil {
		parts = append(parts, *candidate.Company)
	}
	if candidate.Location != nil {
		parts = append(parts, *candidate.Location)
	}
	if candidate.ProfileSummary != nil {
		parts = append(parts, *candidate.ProfileSummary)
	}
	return strings.TrimSpace(strings.Join(parts, "\n"))
}
