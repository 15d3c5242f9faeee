package mapper

import (
	"strategy-buddy-be/internal/entity"
	"strategy-buddy-be/internal/model"
)

type SubscriptionMapper struct{}

func NewSubscriptionMapper() *SubscriptionMapper {
	return &SubscriptionMapper{}
}

func (m *SubscriptionMapper) ToModel(e *entity.Subscription) *model.Subscription {
	return &model.Subscription{
		Id:        e.Id,
		UserId:    e.UserId,
		Status:    e.Status,
		PriceId:   e.PriceId,
		ExpiresAt: e.ExpiresAt,
		CreatedAt: e.CreatedAt,
		UpdatedAt: e.UpdatedAt,
	}
}

func (m *SubscriptionMapper) ToEntity(mo *model.Subscription) *entity.Subscription {
	return &entity.Subscription{
		Id:        mo.Id,
		UserId:    mo.UserId,
		Status:    mo.Status,
		PriceId:   mo.PriceId,
		ExpiresAt: mo.ExpiresAt,
		CreatedAt: mo.CreatedAt,
		UpdatedAt: mo.UpdatedAt,
	}
}
