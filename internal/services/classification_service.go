package services

import (
	"strings"
	"unicode"

	"aichat_backend/internal/models"
)

// ClassificationService присваивает сообщениям возрастной рейтинг.
// Простая классификация по словарям, без внешних вызовов.
type ClassificationService struct {
	matureWords map[string]struct{}
	teenWords   map[string]struct{}
}

func NewClassificationService() *ClassificationService {
	return &ClassificationService{
		matureWords: wordSet(
			"gore", "explicit", "nsfw", "kill", "murder", "suicide",
		),
		teenWords: wordSet(
			"damn", "hell", "fight", "alcohol", "drunk", "gambling",
		),
	}
}

func wordSet(words ...string) map[string]struct{} {
	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		set[w] = struct{}{}
	}
	return set
}

// Classify возвращает рейтинг для текста сообщения. Сравнение по целым
// словам, иначе "hello" ловится словарем как "hell".
func (s *ClassificationService) Classify(content string) models.AgeRating {
	words := strings.FieldsFunc(strings.ToLower(content), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsNumber(r)
	})

	rating := models.RatingEveryone
	for _, w := range words {
		if _, ok := s.matureWords[w]; ok {
			return models.RatingMature
		}
		if _, ok := s.teenWords[w]; ok {
			rating = models.RatingTeen
		}
	}
	return rating
}
