package server

import (
	"net/http"

	"github.com/gofiber/fiber/v2"
	"github.com/goliatone/go-errors"
	"github.com/google/uuid"
	"github.com/moneta-app/moneta/internal/logging"
	"github.com/moneta-app/moneta/internal/store"
)

// TransactionController is the CRUD surface for income/expense entries.
type TransactionController struct {
	Logger *logging.Logger
	Repo   store.RepositoryManager
}

// resolveCategory checks the referenced category is visible to the
// owner. Categories outside the scope produce the collapsed 404.
func (ctl *TransactionController) resolveCategory(c *fiber.Ctx, categoryID int64, ownerID uuid.UUID) error {
	_, err := ctl.Repo.Categories().GetInScope(c.UserContext(), categoryID, ownerID)
	if err != nil {
		if store.IsNotFound(err) {
			return notFoundOrForbidden("Category")
		}
		return errors.Wrap(err, errors.CategoryInternal, "failed to load category")
	}
	return nil
}

// CreatePost handles POST /transactions.
func (ctl *TransactionController) CreatePost(c *fiber.Ctx) error {
	ownerID, err := currentOwnerID(c)
	if err != nil {
		return err
	}

	payload := PayloadFromContext[TransactionPayload](c)

	if err := ctl.resolveCategory(c, payload.CategoryID, ownerID); err != nil {
		return err
	}

	record := &store.Transaction{
		Amount:      payload.Amount,
		Description: payload.Description,
		Date:        payload.ParsedDate(),
		Type:        payload.Type,
		CategoryID:  payload.CategoryID,
		UserID:      ownerID,
	}

	created, err := ctl.Repo.Transactions().Create(c.UserContext(), record)
	if err != nil {
		return errors.Wrap(err, errors.CategoryInternal, "failed to create transaction")
	}

	return c.Status(http.StatusCreated).JSON(fiber.Map{
		"message":     "Transaction created successfully",
		"transaction": created,
	})
}

// ListGet handles GET /transactions, newest first.
func (ctl *TransactionController) ListGet(c *fiber.Ctx) error {
	ownerID, err := currentOwnerID(c)
	if err != nil {
		return err
	}

	records, err := ctl.Repo.Transactions().ListForOwner(c.UserContext(), ownerID)
	if err != nil {
		return errors.Wrap(err, errors.CategoryInternal, "failed to list transactions")
	}

	return c.JSON(fiber.Map{
		"message":      "Transactions fetched successfully",
		"transactions": records,
	})
}

// UpdatePut handles PUT /transactions/:transactionId.
func (ctl *TransactionController) UpdatePut(c *fiber.Ctx) error {
	ownerID, err := currentOwnerID(c)
	if err != nil {
		return err
	}

	transactionID, err := IntParam(c, "transactionId")
	if err != nil {
		return err
	}

	payload := PayloadFromContext[TransactionPayload](c)

	if _, err := ctl.Repo.Transactions().GetOwned(c.UserContext(), transactionID, ownerID); err != nil {
		if store.IsNotFound(err) {
			return notFoundOrForbidden("Transaction")
		}
		return errors.Wrap(err, errors.CategoryInternal, "failed to load transaction")
	}

	if err := ctl.resolveCategory(c, payload.CategoryID, ownerID); err != nil {
		return err
	}

	record := &store.Transaction{
		ID:          transactionID,
		Amount:      payload.Amount,
		Description: payload.Description,
		Date:        payload.ParsedDate(),
		Type:        payload.Type,
		CategoryID:  payload.CategoryID,
		UserID:      ownerID,
	}

	updated, err := ctl.Repo.Transactions().UpdateOwned(c.UserContext(), record)
	if err != nil {
		if store.IsNotFound(err) {
			return notFoundOrForbidden("Transaction")
		}
		return errors.Wrap(err, errors.CategoryInternal, "failed to update transaction")
	}

	return c.JSON(fiber.Map{
		"message":     "Transaction updated successfully",
		"transaction": updated,
	})
}

// DeleteDelete handles DELETE /transactions/:transactionId.
func (ctl *TransactionController) DeleteDelete(c *fiber.Ctx) error {
	ownerID, err := currentOwnerID(c)
	if err != nil {
		return err
	}

	transactionID, err := IntParam(c, "transactionId")
	if err != nil {
		return err
	}

	if err := ctl.Repo.Transactions().DeleteOwned(c.UserContext(), transactionID, ownerID); err != nil {
		if store.IsNotFound(err) {
			return notFoundOrForbidden("Transaction")
		}
		return errors.Wrap(err, errors.CategoryInternal, "failed to delete transaction")
	}

	return c.JSON(fiber.Map{
		"message": "Transaction deleted successfully",
	})
}
