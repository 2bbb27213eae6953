package server_test

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createCategory(t *testing.T, env *testEnv, cookie *http.Cookie, name string) int64 {
	t.Helper()

	resp, body := env.do(t, request(http.MethodPost, "/categories", fiber.Map{"name": name}, cookie))
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	record, ok := body["category"].(map[string]any)
	require.True(t, ok)

	id, ok := record["id"].(float64)
	require.True(t, ok)

	return int64(id)
}

func categoryNames(t *testing.T, body map[string]any) []string {
	t.Helper()

	raw, ok := body["categories"].([]any)
	require.True(t, ok)

	names := make([]string, 0, len(raw))
	for _, item := range raw {
		record, ok := item.(map[string]any)
		require.True(t, ok)
		names = append(names, record["name"].(string))
	}

	return names
}

func TestCategoriesEndpointRequiresSession(t *testing.T) {
	env := newTestEnv(t)

	resp, _ := env.do(t, request(http.MethodGet, "/categories", nil))
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp, _ = env.do(t, request(http.MethodPost, "/categories", fiber.Map{"name": "Travel"}))
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestCreateCategoryEndpoint(t *testing.T) {
	env := newTestEnv(t)
	cookie := env.session(t, "peperone@example.com")

	t.Run("creates an owned category", func(t *testing.T) {
		resp, body := env.do(t, request(http.MethodPost, "/categories", fiber.Map{"name": "Coffee"}, cookie))

		assert.Equal(t, http.StatusCreated, resp.StatusCode)
		assert.Equal(t, "Category created successfully", body["message"])

		record := body["category"].(map[string]any)
		assert.Equal(t, "Coffee", record["name"])
		assert.NotEmpty(t, record["user_id"])
	})

	t.Run("rejects a case-variant duplicate", func(t *testing.T) {
		resp, body := env.do(t, request(http.MethodPost, "/categories", fiber.Map{"name": "  cOfFeE "}, cookie))

		assert.Equal(t, http.StatusConflict, resp.StatusCode)
		// The conflict names the record already holding the name.
		assert.Equal(t, "You already have a category named 'Coffee'.", body["message"])
	})

	t.Run("rejects a name held by a default", func(t *testing.T) {
		resp, body := env.do(t, request(http.MethodPost, "/categories", fiber.Map{"name": "groceries"}, cookie))

		assert.Equal(t, http.StatusConflict, resp.StatusCode)
		assert.Equal(t, "You already have a category named 'Groceries'.", body["message"])
	})

	t.Run("rejects a short name", func(t *testing.T) {
		resp, body := env.do(t, request(http.MethodPost, "/categories", fiber.Map{"name": "X"}, cookie))

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		fieldErrs := body["errors"].(map[string]any)
		assert.Contains(t, fieldErrs, "name")
	})

	t.Run("another user can reuse the name", func(t *testing.T) {
		otherCookie := env.session(t, "other@example.com")

		resp, _ := env.do(t, request(http.MethodPost, "/categories", fiber.Map{"name": "Coffee"}, otherCookie))
		assert.Equal(t, http.StatusCreated, resp.StatusCode)
	})
}

func TestListCategoriesEndpoint(t *testing.T) {
	env := newTestEnv(t)
	cookie := env.session(t, "peperone@example.com")

	createCategory(t, env, cookie, "Zzz Travel")
	createCategory(t, env, cookie, "Aaa Coffee")

	resp, body := env.do(t, request(http.MethodGet, "/categories", nil, cookie))

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Categories fetched successfully", body["message"])

	names := categoryNames(t, body)
	// Owned categories sorted by name, then the shared defaults.
	assert.Equal(t, []string{
		"Aaa Coffee",
		"Zzz Travel",
		"Entertainment",
		"Groceries",
		"Rent",
		"Salary",
		"Transport",
		"Utilities",
	}, names)
}

func TestUpdateCategoryEndpoint(t *testing.T) {
	env := newTestEnv(t)
	cookie := env.session(t, "peperone@example.com")

	coffeeID := createCategory(t, env, cookie, "Coffee")
	createCategory(t, env, cookie, "Travel")

	t.Run("renames an owned category", func(t *testing.T) {
		resp, body := env.do(t, request(http.MethodPut, fmt.Sprintf("/categories/%d", coffeeID), fiber.Map{"name": "Espresso"}, cookie))

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, "Category updated successfully", body["message"])
		assert.Equal(t, "Espresso", body["category"].(map[string]any)["name"])
	})

	t.Run("rename to an existing name conflicts", func(t *testing.T) {
		resp, body := env.do(t, request(http.MethodPut, fmt.Sprintf("/categories/%d", coffeeID), fiber.Map{"name": "travel"}, cookie))

		assert.Equal(t, http.StatusConflict, resp.StatusCode)
		assert.Equal(t, "You already have a category named 'Travel'.", body["message"])
	})

	t.Run("rename keeping the same name is allowed", func(t *testing.T) {
		resp, _ := env.do(t, request(http.MethodPut, fmt.Sprintf("/categories/%d", coffeeID), fiber.Map{"name": "ESPRESSO"}, cookie))
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})

	t.Run("unknown id", func(t *testing.T) {
		resp, body := env.do(t, request(http.MethodPut, "/categories/9999", fiber.Map{"name": "Ghost"}, cookie))

		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
		assert.Equal(t, "Category not found or you do not have permission to access it.", body["message"])
	})

	t.Run("another user's category reads as missing", func(t *testing.T) {
		otherCookie := env.session(t, "other@example.com")

		resp, _ := env.do(t, request(http.MethodPut, fmt.Sprintf("/categories/%d", coffeeID), fiber.Map{"name": "Mine Now"}, otherCookie))
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})

	t.Run("non-integer id", func(t *testing.T) {
		resp, body := env.do(t, request(http.MethodPut, "/categories/abc", fiber.Map{"name": "Ghost"}, cookie))
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Equal(t, "categoryId must be an integer", body["message"])
	})

	t.Run("non-positive id", func(t *testing.T) {
		resp, body := env.do(t, request(http.MethodPut, "/categories/0", fiber.Map{"name": "Ghost"}, cookie))
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Equal(t, "categoryId must be a positive integer", body["message"])
	})
}

func TestDeleteCategoryEndpoint(t *testing.T) {
	env := newTestEnv(t)
	cookie := env.session(t, "peperone@example.com")

	coffeeID := createCategory(t, env, cookie, "Coffee")

	resp, body := env.do(t, request(http.MethodPost, "/transactions", fiber.Map{
		"amount":      4.50,
		"description": "flat white",
		"category_id": coffeeID,
		"date":        "2026-03-02",
		"type":        "EXPENSE",
	}, cookie))
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	transactionID := int64(body["transaction"].(map[string]any)["id"].(float64))

	t.Run("refuses while transactions reference it", func(t *testing.T) {
		resp, body := env.do(t, request(http.MethodDelete, fmt.Sprintf("/categories/%d", coffeeID), nil, cookie))

		assert.Equal(t, http.StatusConflict, resp.StatusCode)
		assert.Equal(t, "Cannot delete category because it is still in use by transactions.", body["message"])
	})

	t.Run("deletes once the references are gone", func(t *testing.T) {
		resp, _ := env.do(t, request(http.MethodDelete, fmt.Sprintf("/transactions/%d", transactionID), nil, cookie))
		require.Equal(t, http.StatusOK, resp.StatusCode)

		resp, body := env.do(t, request(http.MethodDelete, fmt.Sprintf("/categories/%d", coffeeID), nil, cookie))
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, "Category deleted successfully", body["message"])
	})

	t.Run("deleting again reads as missing", func(t *testing.T) {
		resp, _ := env.do(t, request(http.MethodDelete, fmt.Sprintf("/categories/%d", coffeeID), nil, cookie))
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})

	t.Run("defaults cannot be deleted", func(t *testing.T) {
		resp, getBody := env.do(t, request(http.MethodGet, "/categories", nil, cookie))
		require.Equal(t, http.StatusOK, resp.StatusCode)

		raw := getBody["categories"].([]any)
		first := raw[0].(map[string]any)
		defaultID := int64(first["id"].(float64))

		resp, _ = env.do(t, request(http.MethodDelete, fmt.Sprintf("/categories/%d", defaultID), nil, cookie))
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})
}
