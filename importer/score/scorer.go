package score

import (
	"github.com/galaxyhub/importer/models"
)

// BaseScore is the starting point every scored axis counts down from,
// on a 0-50 scale before dividing by 10
const BaseScore = 50.0

// Unit computes a unit's score from its accumulated lint records.
// Only roles participate in scoring, every other content type returns
// nil.
func Unit(unit models.ContentUnit) *models.Score {
	if !unit.ContentType.IsRole() {
		return nil
	}

	var contentWeight, metadataWeight float64
	for _, rec := range unit.Records {
		switch rec.Type {
		case models.ScoreTypeContent:
			contentWeight += Weight(rec.Severity)
		case models.ScoreTypeMetadata:
			metadataWeight += Weight(rec.Severity)
		}
	}

	content := axisScore(contentWeight)
	metadata := axisScore(metadataWeight)
	return &models.Score{
		Content:       content,
		Metadata:      metadata,
		Compatibility: nil,
		Quality:       (content + metadata) / 2,
	}
}

// Aggregate computes the collection or repository level quality score
// as the mean of all unit quality scores, nil when no unit was scored
func Aggregate(units []models.ContentUnit) *float64 {
	var sum float64
	var count int
	for _, unit := range units {
		if unit.Scores == nil {
			continue
		}
		sum += unit.Scores.Quality
		count++
	}
	if count == 0 {
		return nil
	}
	mean := sum / float64(count)
	return &mean
}

func axisScore(totalWeight float64) float64 {
	s := (BaseScore - totalWeight) / 10
	if s < 0 {
		return 0
	}
	return s
}
