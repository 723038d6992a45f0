package handler

import (
	"github.com/monochrome/portal/internal/core/domain"
	"github.com/monochrome/portal/internal/core/ports"
)

// --- Request → Service input ---

func toBookingInput(req bookingRequest) ports.BookingFormInput {
	return ports.BookingFormInput{
		ServiceID:          req.ServiceID,
		Name:               req.Name,
		Email:              req.Email,
		Phone:              req.Phone,
		Company:            req.Company,
		ProjectDescription: req.ProjectDescription,
		Budget:             req.Budget,
		Timeline:           req.Timeline,
	}
}

func toBookingUpdate(req bookingUpdateRequest) domain.BookingUpdate {
	return domain.BookingUpdate{Status: req.Status, AdminNotes: req.AdminNotes}
}

func toServiceInput(req serviceRequest) ports.ServiceInput {
	return ports.ServiceInput{
		Name:            req.Name,
		Slug:            req.Slug,
		Description:     req.Description,
		FullDescription: req.FullDescription,
		Category:        req.Category,
		Price:           req.Price,
		DeliveryTime:    req.DeliveryTime,
		Features:        req.Features,
		Tags:            req.Tags,
	}
}

func toUserUpdate(req userUpdateRequest) ports.UserUpdate {
	return ports.UserUpdate{Name: req.Name, Email: req.Email, Role: req.Role}
}
