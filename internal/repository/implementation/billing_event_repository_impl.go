package implementation

import (
	"context"
	"errors"

	"strategy-buddy-be/internal/model"
	"strategy-buddy-be/internal/repository/contract"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type BillingEventRepositoryImpl struct {
	db *gorm.DB
}

func NewBillingEventRepository(db *gorm.DB) contract.BillingEventRepository {
	return &BillingEventRepositoryImpl{db: db}
}

func (r *BillingEventRepositoryImpl) Exists(ctx context.Context, eventId string) (bool, error) {
	var m model.BillingEvent
	err := r.db.WithContext(ctx).Select("id").Where("id = ?", eventId).First(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func (r *BillingEventRepositoryImpl) Record(ctx context.Context, eventId string, eventType string, payload []byte) error {
	m := &model.BillingEvent{
		Id:      eventId,
		Type:    eventType,
		Payload: datatypes.JSON(payload),
	}
	return r.db.WithContext(ctx).Create(m).Error
}
