// Package intent определяет намерение клиента по тексту реплики.
package intent

import (
	"context"
	"errors"

	"github.com/Freeeeeet/testdrive_bot/internal/model"
	"go.uber.org/zap"
)

// ErrMalformed классификатор вернул ответ не по схеме
var ErrMalformed = errors.New("malformed classifier output")

// Classifier преобразует реплику в структурированное намерение
type Classifier interface {
	Classify(ctx context.Context, utterance string) (model.Intent, error)
}

// Fallback резервный классификатор, который никогда не ошибается
type Fallback interface {
	Classify(utterance string) model.Intent
}

// Resilient вызывает основной классификатор и при любой его ошибке
// переключается на резервный. Classify никогда не возвращает ошибку.
type Resilient struct {
	primary  Classifier
	fallback Fallback
	logger   *zap.Logger
}

// WithFallback оборачивает primary (может быть nil) ключевым классификатором
func WithFallback(primary Classifier, logger *zap.Logger) *Resilient {
	return &Resilient{
		primary:  primary,
		fallback: NewKeyword(),
		logger:   logger,
	}
}

func (r *Resilient) Classify(ctx context.Context, utterance string) (model.Intent, error) {
	if r.primary != nil {
		result, err := r.primary.Classify(ctx, utterance)
		if err == nil && result.Kind.Valid() {
			return result, nil
		}
		if err == nil {
			err = ErrMalformed
		}
		r.logger.Warn("Classifier failed, using keyword fallback", zap.Error(err))
	}
	return r.fallback.Classify(utterance), nil
}
