package handlers_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BruksfildServices01/salon-manager/internal/models"
	"github.com/BruksfildServices01/salon-manager/internal/testutil"
)

func TestEmployeeCreate(t *testing.T) {
	env := testutil.NewEnv(t)
	alice := env.User(t, "alice", models.RoleUser)
	bob := env.User(t, "bob", models.RoleUser)
	admin := env.User(t, "admin", models.RoleAdmin)
	aliceTok := env.Token(t, alice)

	w := env.Do(t, http.MethodPost, "/api/employees", aliceTok, map[string]any{"name": "Al"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "invalid_name", testutil.Code(t, w))

	w = env.Do(t, http.MethodPost, "/api/employees", aliceTok, map[string]any{"name": "Laura", "phone": "555 1234"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	emp := testutil.JSON(t, w)["employee"].(map[string]any)
	assert.Equal(t, float64(alice.ID), emp["ownerId"])

	t.Run("name unique among active employees", func(t *testing.T) {
		w := env.Do(t, http.MethodPost, "/api/employees", env.Token(t, bob), map[string]any{"name": "laura"})
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "employee_name_taken", testutil.Code(t, w))
	})

	t.Run("only admins assign another owner", func(t *testing.T) {
		w := env.Do(t, http.MethodPost, "/api/employees", aliceTok, map[string]any{"name": "Pedro", "userId": bob.ID})
		assert.Equal(t, http.StatusForbidden, w.Code)

		w = env.Do(t, http.MethodPost, "/api/employees", env.Token(t, admin), map[string]any{"name": "Pedro", "userId": idString(bob.ID)})
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
		assert.Equal(t, float64(bob.ID), testutil.JSON(t, w)["employee"].(map[string]any)["ownerId"])

		w = env.Do(t, http.MethodPost, "/api/employees", env.Token(t, admin), map[string]any{"name": "Ghost", "userId": 999})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestEmployeeVisibility(t *testing.T) {
	env := testutil.NewEnv(t)
	alice := env.User(t, "alice", models.RoleUser)
	bob := env.User(t, "bob", models.RoleUser)
	aliceTok := env.Token(t, alice)

	shared := env.Employee(t, nil, "Shared")
	own := env.Employee(t, alice, "Mine")
	other := env.Employee(t, bob, "Theirs")

	w := env.Do(t, http.MethodGet, "/api/employees", aliceTok, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, testutil.JSON(t, w)["employees"], 2)

	w = env.Do(t, http.MethodGet, "/api/employees/"+idString(shared.ID), aliceTok, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	w = env.Do(t, http.MethodGet, "/api/employees/"+idString(own.ID), aliceTok, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	w = env.Do(t, http.MethodGet, "/api/employees/"+idString(other.ID), aliceTok, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	// shared employees are read-only for non-admins
	w = env.Do(t, http.MethodPut, "/api/employees/"+idString(shared.ID), aliceTok, map[string]any{"name": "Renamed"})
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestEmployeeDeactivationGuard(t *testing.T) {
	env := testutil.NewEnv(t)
	alice := env.User(t, "alice", models.RoleUser)
	tok := env.Token(t, alice)
	cl := env.Client(t, alice, "Jo")

	busy := env.Employee(t, alice, "Busy One")
	idle := env.Employee(t, alice, "Idle One")

	require.NoError(t, env.DB.Create(&models.Appointment{
		OwnerID: alice.ID, ClientID: cl.ID, EmployeeID: &busy.ID,
		Date: future, Status: "pending", SlotKey: "busy",
	}).Error)

	w := env.Do(t, http.MethodDelete, "/api/employees/"+idString(busy.ID), tok, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "employee_in_use", testutil.Code(t, w))

	w = env.Do(t, http.MethodDelete, "/api/employees/"+idString(idle.ID), tok, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, false, testutil.JSON(t, w)["employee"].(map[string]any)["isActive"])

	// a new active employee takes the name, so reactivation is refused
	env.Employee(t, alice, "idle one")
	w = env.Do(t, http.MethodPatch, "/api/employees/"+idString(idle.ID)+"/reactivate", tok, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "employee_name_taken", testutil.Code(t, w))
}

func TestSharedEmployeeByAdmin(t *testing.T) {
	env := testutil.NewEnv(t)
	admin := env.User(t, "admin", models.RoleAdmin)
	alice := env.User(t, "alice", models.RoleUser)
	aliceTok := env.Token(t, alice)
	cl := env.Client(t, alice, "Jo")

	w := env.Do(t, http.MethodPost, "/api/employees", env.Token(t, admin), map[string]any{"name": "Laura"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	emp := testutil.JSON(t, w)["employee"].(map[string]any)
	assert.Nil(t, emp["ownerId"])

	w = env.Do(t, http.MethodGet, "/api/employees", aliceTok, nil)
	require.Equal(t, http.StatusOK, w.Code)
	list := testutil.JSON(t, w)["employees"].([]any)
	require.Len(t, list, 1)
	assert.Equal(t, emp["id"], list[0].(map[string]any)["id"])

	w = env.Do(t, http.MethodPost, "/api/appointments", aliceTok, map[string]any{
		"clientId": cl.ID, "employeeId": emp["id"], "date": "2099-01-01T10:00:00Z",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = env.Do(t, http.MethodPut, "/api/employees/"+idString(emp["id"]), aliceTok, map[string]any{"phone": "555"})
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestEmployeeUpdateActiveAndOwner(t *testing.T) {
	env := testutil.NewEnv(t)
	admin := env.User(t, "admin", models.RoleAdmin)
	alice := env.User(t, "alice", models.RoleUser)
	bob := env.User(t, "bob", models.RoleUser)
	aliceTok, adminTok := env.Token(t, alice), env.Token(t, admin)
	cl := env.Client(t, alice, "Jo")

	emp := env.Employee(t, alice, "Laura")
	path := "/api/employees/" + idString(emp.ID)
	require.NoError(t, env.DB.Create(&models.Appointment{
		OwnerID: alice.ID, ClientID: cl.ID, EmployeeID: &emp.ID,
		Date: future, Status: "pending", SlotKey: "busy",
	}).Error)

	w := env.Do(t, http.MethodPut, path, aliceTok, map[string]any{"isActive": false})
	assert.Equal(t, "employee_in_use", testutil.Code(t, w))

	require.NoError(t, env.DB.Where("employee_id = ?", emp.ID).Delete(&models.Appointment{}).Error)
	w = env.Do(t, http.MethodPut, path, aliceTok, map[string]any{"isActive": "false"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, false, testutil.JSON(t, w)["employee"].(map[string]any)["isActive"])

	// reactivating checks the name against active employees
	env.Employee(t, nil, "laura")
	w = env.Do(t, http.MethodPut, path, aliceTok, map[string]any{"isActive": true})
	assert.Equal(t, "employee_name_taken", testutil.Code(t, w))

	w = env.Do(t, http.MethodPut, path, aliceTok, map[string]any{"userId": bob.ID})
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = env.Do(t, http.MethodPut, path, adminTok, map[string]any{"userId": idString(bob.ID)})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, float64(bob.ID), testutil.JSON(t, w)["employee"].(map[string]any)["ownerId"])

	w = env.Do(t, http.MethodGet, path, aliceTok, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
}
