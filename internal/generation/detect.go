package generation

import (
	"fmt"
	"strings"

	"creation-server/internal/models"
)

// Confidence - уверенность классификатора в выбранном архетипе.
type Confidence string

const (
	ConfidenceHigh   Confidence = "high"
	ConfidenceMedium Confidence = "medium"
	ConfidenceLow    Confidence = "low"
)

// GameKindDetection - результат классификации промпта.
type GameKindDetection struct {
	Kind       models.GameKind `json:"kind"`
	Confidence Confidence      `json:"confidence"`
	Reason     string          `json:"reason"`
}

// Наборы ключевых слов по архетипам. Порядок проверки фиксирован и значим:
// shooter проверяется первым, поэтому "space shooter" классифицируется как
// shooter, а не space. Наборы пересекаются по словарю, приоритет снимает
// неоднозначность детерминированно.
var kindKeywords = []struct {
	kind     models.GameKind
	keywords []string
}{
	{models.GameKindShooter, []string{"shoot", "shooter", "gun", "fire", "bullet", "weapon", "enemy", "enemies"}},
	{models.GameKindRunner, []string{"run", "runner", "jump", "obstacle", "endless"}},
	{models.GameKindPuzzle, []string{"puzzle", "match", "pattern", "solve", "logic"}},
	{models.GameKindCatch, []string{"catch", "collect", "grab", "gather", "pick"}},
	{models.GameKindSpace, []string{"space", "star", "galaxy", "asteroid", "planet", "cosmic"}},
}

// DetectGameKind выбирает архетип игры по ключевым словам промпта.
// Чистая детерминированная функция: первая категория с ненулевым числом
// подстрочных совпадений побеждает; >=2 совпадений дают high, иначе medium.
// Без совпадений - фолбек catch с confidence low.
func DetectGameKind(prompt string) GameKindDetection {
	lower := strings.ToLower(prompt)

	for _, set := range kindKeywords {
		var matched []string
		for _, kw := range set.keywords {
			if strings.Contains(lower, kw) {
				matched = append(matched, kw)
			}
		}
		if len(matched) == 0 {
			continue
		}
		confidence := ConfidenceMedium
		if len(matched) >= 2 {
			confidence = ConfidenceHigh
		}
		return GameKindDetection{
			Kind:       set.kind,
			Confidence: confidence,
			Reason:     fmt.Sprintf("Contains %s keywords: %s", set.kind, strings.Join(matched, ", ")),
		}
	}

	return GameKindDetection{
		Kind:       models.GameKindCatch,
		Confidence: ConfidenceLow,
		Reason:     "No specific keywords detected, using default",
	}
}

// GameKindLabel возвращает человекочитаемую подпись архетипа.
func GameKindLabel(kind models.GameKind) string {
	switch kind {
	case models.GameKindRunner:
		return "Runner"
	case models.GameKindShooter:
		return "Shooter"
	case models.GameKindCatch:
		return "Catch"
	case models.GameKindPuzzle:
		return "Puzzle"
	case models.GameKindSpace:
		return "Space"
	}
	return string(kind)
}
