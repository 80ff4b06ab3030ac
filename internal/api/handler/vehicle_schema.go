package handler

import "github.com/vehinfo/rc-backend/internal/core/domain"

type rcLookupRequest struct {
	RegNo string `json:"reg_no" validate:"required"`
}

type chassisLookupRequest struct {
	ChassisNo string `json:"chassis_no" validate:"required"`
}

type lookupResponse struct {
	Record    *domain.VehicleRecord `json:"record"`
	Charged   float64               `json:"charged"`
	Remaining float64               `json:"remaining"`
}
