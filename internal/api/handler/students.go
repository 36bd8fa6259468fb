package handler

import (
	"log/slog"

	"github.com/gofiber/fiber/v2"

	"github.com/saturnino-fabrica-de-software/presenca/internal/domain"
	"github.com/saturnino-fabrica-de-software/presenca/internal/repository"
)

type StudentsHandler struct {
	students repository.StudentRepositoryInterface
	logger   *slog.Logger
}

func NewStudentsHandler(students repository.StudentRepositoryInterface, logger *slog.Logger) *StudentsHandler {
	return &StudentsHandler{students: students, logger: logger}
}

type StudentResponse struct {
	ExternalID string `json:"external_id"`
	Name       string `json:"name"`
}

// List returns the enrolled students
func (h *StudentsHandler) List(c *fiber.Ctx) error {
	students, err := h.students.List(c.Context())
	if err != nil {
		h.logger.Error("failed to list students", slog.Any("error", err))
		return domain.ErrInternal.WithError(err)
	}

	response := make([]StudentResponse, 0, len(students))
	for _, s := range students {
		response = append(response, StudentResponse{
			ExternalID: s.ExternalID,
			Name:       s.Name,
		})
	}

	return c.JSON(fiber.Map{"students": response})
}

// Get returns one student by external id
func (h *StudentsHandler) Get(c *fiber.Ctx) error {
	student, err := h.students.GetByExternalID(c.Context(), c.Params("external_id"))
	if err != nil {
		return err
	}

	return c.JSON(StudentResponse{
		ExternalID: student.ExternalID,
		Name:       student.Name,
	})
}
