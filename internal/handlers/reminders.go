package handlers

import (
	"database/sql"
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/vishakh-abhayan/Maki-ai/internal/storage"
)

// ReminderHandler serves and updates persisted reminders
type ReminderHandler struct {
	store *storage.Store
}

// NewReminderHandler creates a new reminder handler
func NewReminderHandler(store *storage.Store) *ReminderHandler {
	return &ReminderHandler{store: store}
}

// List returns reminders sorted by due date. upcoming_only=true (the
// default) hides completed reminders.
func (h *ReminderHandler) List(c *fiber.Ctx) error {
	upcomingOnly := c.QueryBool("upcoming_only", true)
	limit := c.QueryInt("limit", 10)
	if limit < 1 || limit > 500 {
		limit = 10
	}

	reminders, err := h.store.ListReminders(upcomingOnly, limit)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": err.Error()})
	}
	if reminders == nil {
		reminders = []*storage.ReminderRecord{}
	}
	return c.JSON(reminders)
}

type reminderUpdate struct {
	Completed   *bool  `json:"completed"`
	SnoozeUntil string `json:"snooze_until"`
}

// Update marks a reminder completed or snoozes it to a new due date
func (h *ReminderHandler) Update(c *fiber.Ctx) error {
	var body reminderUpdate
	if err := c.BodyParser(&body); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if body.Completed == nil && body.SnoozeUntil == "" {
		return c.Status(400).JSON(fiber.Map{"error": "Nothing to update"})
	}

	err := h.store.UpdateReminder(c.Params("id"), body.Completed, body.SnoozeUntil)
	if errors.Is(err, sql.ErrNoRows) {
		return c.Status(404).JSON(fiber.Map{"error": "Reminder not found"})
	}
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(fiber.Map{"message": "Reminder updated successfully"})
}
