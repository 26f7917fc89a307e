package handler

import (
	"github.com/UsagiiTsukino/medchain-api/internal/core/domain"
	"github.com/UsagiiTsukino/medchain-api/internal/core/ports"
)

type vaccineRequest struct {
	Name         string `json:"name"         validate:"required"`
	Manufacturer string `json:"manufacturer" validate:"required"`
	Disease      string `json:"disease"      validate:"required"`
	PriceVnd     int64  `json:"priceVnd"     validate:"required,gt=0"`
	Doses        int    `json:"doses"        validate:"required,gt=0"`
	Description  string `json:"description"`
	CenterName   string `json:"centerName"`
}

func (r vaccineRequest) toCreateInput() ports.CreateVaccineInput {
	return ports.CreateVaccineInput{
		Name:         r.Name,
		Manufacturer: r.Manufacturer,
		Disease:      r.Disease,
		PriceVnd:     r.PriceVnd,
		Doses:        r.Doses,
		Description:  r.Description,
		CenterName:   r.CenterName,
	}
}

type vaccineListResponse struct {
	Result []*domain.Vaccine `json:"result"`
	Meta   ports.ListMeta    `json:"meta"`
}
