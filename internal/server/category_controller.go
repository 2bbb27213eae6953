package server

import (
	"net/http"

	"github.com/gofiber/fiber/v2"
	"github.com/goliatone/go-errors"
	"github.com/moneta-app/moneta/internal/logging"
	"github.com/moneta-app/moneta/internal/store"
)

// CategoryController is the CRUD surface for user-scoped categories.
// Every operation is scoped to {owner ∪ defaults}; cross-tenant access
// is structurally impossible.
type CategoryController struct {
	Logger *logging.Logger
	Repo   store.RepositoryManager
}

// CreatePost handles POST /categories.
func (ctl *CategoryController) CreatePost(c *fiber.Ctx) error {
	ownerID, err := currentOwnerID(c)
	if err != nil {
		return err
	}

	payload := PayloadFromContext[CategoryPayload](c)

	// Advisory check first so the conflict can name the holder.
	existing, err := ctl.Repo.Categories().FindConflicting(c.UserContext(), ownerID, payload.Name, 0)
	if err != nil {
		return errors.Wrap(err, errors.CategoryInternal, "failed to check category name")
	}
	if existing != nil {
		return conflictNamed(existing.Name)
	}

	record := &store.Category{
		Name:   payload.Name,
		UserID: &ownerID,
	}

	created, err := ctl.Repo.Categories().Create(c.UserContext(), record)
	if err != nil {
		// Two identical requests can race past the advisory check; the
		// unique index resolves the race with the same conflict shape.
		if store.IsUniqueViolation(err) {
			return conflictNamed(payload.Name)
		}
		return errors.Wrap(err, errors.CategoryInternal, "failed to create category")
	}

	return c.Status(http.StatusCreated).JSON(fiber.Map{
		"message":  "Category created successfully",
		"category": created,
	})
}

// ListGet handles GET /categories: the owner's categories first, then
// the shared defaults, each sorted by name.
func (ctl *CategoryController) ListGet(c *fiber.Ctx) error {
	ownerID, err := currentOwnerID(c)
	if err != nil {
		return err
	}

	records, err := ctl.Repo.Categories().ListForOwner(c.UserContext(), ownerID)
	if err != nil {
		return errors.Wrap(err, errors.CategoryInternal, "failed to list categories")
	}

	return c.JSON(fiber.Map{
		"message":    "Categories fetched successfully",
		"categories": records,
	})
}

// UpdatePut handles PUT /categories/:categoryId.
func (ctl *CategoryController) UpdatePut(c *fiber.Ctx) error {
	ownerID, err := currentOwnerID(c)
	if err != nil {
		return err
	}

	categoryID, err := IntParam(c, "categoryId")
	if err != nil {
		return err
	}

	payload := PayloadFromContext[CategoryPayload](c)

	if _, err := ctl.Repo.Categories().GetOwned(c.UserContext(), categoryID, ownerID); err != nil {
		if store.IsNotFound(err) {
			return notFoundOrForbidden("Category")
		}
		return errors.Wrap(err, errors.CategoryInternal, "failed to load category")
	}

	existing, err := ctl.Repo.Categories().FindConflicting(c.UserContext(), ownerID, payload.Name, categoryID)
	if err != nil {
		return errors.Wrap(err, errors.CategoryInternal, "failed to check category name")
	}
	if existing != nil {
		return conflictNamed(existing.Name)
	}

	updated, err := ctl.Repo.Categories().RenameOwned(c.UserContext(), categoryID, ownerID, payload.Name)
	if err != nil {
		if store.IsUniqueViolation(err) {
			return conflictNamed(payload.Name)
		}
		if store.IsNotFound(err) {
			return notFoundOrForbidden("Category")
		}
		return errors.Wrap(err, errors.CategoryInternal, "failed to update category")
	}

	return c.JSON(fiber.Map{
		"message":  "Category updated successfully",
		"category": updated,
	})
}

// DeleteDelete handles DELETE /categories/:categoryId, refusing while
// any of the owner's transactions still reference the category.
func (ctl *CategoryController) DeleteDelete(c *fiber.Ctx) error {
	ownerID, err := currentOwnerID(c)
	if err != nil {
		return err
	}

	categoryID, err := IntParam(c, "categoryId")
	if err != nil {
		return err
	}

	inUse, err := ctl.Repo.Transactions().CountByCategory(c.UserContext(), categoryID, ownerID)
	if err != nil {
		return errors.Wrap(err, errors.CategoryInternal, "failed to count category usage")
	}
	if inUse > 0 {
		return categoryInUse()
	}

	if err := ctl.Repo.Categories().DeleteOwned(c.UserContext(), categoryID, ownerID); err != nil {
		// A transaction inserted after the count lands on the foreign
		// key instead; same conflict either way.
		if store.IsForeignKeyViolation(err) {
			return categoryInUse()
		}
		if store.IsNotFound(err) {
			return notFoundOrForbidden("Category")
		}
		return errors.Wrap(err, errors.CategoryInternal, "failed to delete category")
	}

	return c.JSON(fiber.Map{
		"message": "Category deleted successfully",
	})
}
