package handler

import (
	"encoding/json"
	"net/http"

	"github.com/khallude/healthify-booking/internal/delivery/dto"
	"github.com/khallude/healthify-booking/internal/usecase"
	"github.com/khallude/healthify-booking/pkg/response"
	"github.com/khallude/healthify-booking/pkg/validator"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

type ReminderHandler struct {
	reminderUsecase usecase.ReminderUsecase
	validator       *validator.CustomValidator
}

func NewReminderHandler(reminderUsecase usecase.ReminderUsecase, validator *validator.CustomValidator) *ReminderHandler {
	return &ReminderHandler{
		reminderUsecase: reminderUsecase,
		validator:       validator,
	}
}

func (h *ReminderHandler) CreateReminder(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateReminderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	reminder, err := h.reminderUsecase.CreateReminder(r.Context(), &req)
	if err != nil {
		switch err {
		case usecase.ErrPatientNotFound:
			response.NotFound(w, "Patient not found")
		case usecase.ErrInvalidReminderAt:
			response.BadRequest(w, "Reminder date or time is invalid")
		default:
			response.InternalServerError(w, "Failed to create reminder")
		}
		return
	}

	response.Success(w, http.StatusCreated, "Reminder created successfully", reminder)
}

func (h *ReminderHandler) GetMyReminders(w http.ResponseWriter, r *http.Request) {
	reminders, err := h.reminderUsecase.GetMyReminders(r.Context())
	if err != nil {
		response.InternalServerError(w, "Failed to get reminders")
		return
	}

	response.Success(w, http.StatusOK, "Reminders retrieved successfully", reminders)
}

func (h *ReminderHandler) DeleteReminder(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	reminderID, err := uuid.Parse(vars["id"])
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid reminder ID", nil)
		return
	}

	err = h.reminderUsecase.DeleteReminder(r.Context(), reminderID)
	if err != nil {
		switch err {
		case usecase.ErrReminderNotFound:
			response.NotFound(w, "Reminder not found")
		case usecase.ErrReminderNotOwned:
			response.Forbidden(w, "Reminder does not belong to you")
		default:
			response.InternalServerError(w, "Failed to delete reminder")
		}
		return
	}

	response.Success(w, http.StatusOK, "Reminder deleted successfully", nil)
}
