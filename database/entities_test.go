package database

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jayeshbankoti007/civicgraph/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEntitiesNewEntitiesDBHandler(t *testing.T) {
	database := initDB(t)

	t.Run("Valid call NewEntitiesDBHandler", func(t *testing.T) {
		entitiesDbHandler, err := NewEntitiesDBHandler(database, true)
		assert.NoError(t, err, "Expected NewEntitiesDBHandler to not return an error")
		require.NotNil(t, entitiesDbHandler, "Expected NewEntitiesDBHandler to return a non-nil instance")
		require.NotNil(t, entitiesDbHandler.db, "Expected NewEntitiesDBHandler to have a non-nil database instance")
	})

	t.Run("Invalid call NewEntitiesDBHandler with nil database", func(t *testing.T) {
		_, err := NewEntitiesDBHandler(nil, false)
		assert.Error(t, err, "Expected error when creating EntitiesDBHandler with nil database")
		assert.Contains(t, err.Error(), "database connection is nil")
	})
}

func TestEntitiesInsert(t *testing.T) {
	database := initDB(t)

	entitiesDbHandler, err := NewEntitiesDBHandler(database, true)
	require.NoError(t, err)

	t.Run("Insert entity", func(t *testing.T) {
		entity := &model.Entity{
			Name:     "Howard Shook",
			Type:     model.EntityTypePerson,
			Aliases:  []string{"Howard Shook"},
			Metadata: model.Metadata{"role": "Councilmember"},
		}

		err := entitiesDbHandler.InsertEntity(entity)
		assert.NoError(t, err, "Expected Insert to not return an error")
		assert.NotEmpty(t, entity.ID, "Expected inserted entity to have an ID")
		assert.NotEqual(t, uuid.Nil, entity.RID, "Expected inserted entity to have a RID")
		assert.WithinDuration(t, entity.CreatedAt, time.Now(), 2*time.Second)

		// Cleanup
		entitiesDbHandler.DeleteEntity(entity.ID)
	})

	t.Run("Upsert merges aliases", func(t *testing.T) {
		first := &model.Entity{
			Name:    "Finance Department",
			Type:    model.EntityTypeOrganization,
			Aliases: []string{"Finance Department", "finance dept"},
		}
		require.NoError(t, entitiesDbHandler.InsertEntity(first))
		defer entitiesDbHandler.DeleteEntity(first.ID)

		second := &model.Entity{
			Name:    "Finance Department",
			Type:    model.EntityTypeOrganization,
			Aliases: []string{"Department of Finance"},
		}
		err := entitiesDbHandler.InsertEntity(second)
		assert.NoError(t, err)
		assert.Equal(t, first.ID, second.ID, "Expected upsert to keep the existing row")
		assert.ElementsMatch(t,
			[]string{"Finance Department", "finance dept", "Department of Finance"},
			second.Aliases,
			"Expected aliases to be merged",
		)
	})

	t.Run("Same name with different type stays separate", func(t *testing.T) {
		person := &model.Entity{Name: "Beltline", Type: model.EntityTypePerson}
		project := &model.Entity{Name: "Beltline", Type: model.EntityTypeProject}

		require.NoError(t, entitiesDbHandler.InsertEntity(person))
		defer entitiesDbHandler.DeleteEntity(person.ID)
		require.NoError(t, entitiesDbHandler.InsertEntity(project))
		defer entitiesDbHandler.DeleteEntity(project.ID)

		assert.NotEqual(t, person.ID, project.ID)
	})
}

func TestEntitiesSelect(t *testing.T) {
	database := initDB(t)

	entitiesDbHandler, err := NewEntitiesDBHandler(database, true)
	require.NoError(t, err)

	entity := &model.Entity{
		Name:    "25-O-1271",
		Type:    model.EntityTypeBill,
		Aliases: []string{"25-O-1271", "25 O 1271", "25-o-1271"},
	}
	require.NoError(t, entitiesDbHandler.InsertEntity(entity))
	defer entitiesDbHandler.DeleteEntity(entity.ID)

	t.Run("Select entity by ID", func(t *testing.T) {
		found, err := entitiesDbHandler.SelectEntity(entity.ID)
		assert.NoError(t, err)
		require.NotNil(t, found)
		assert.Equal(t, entity.Name, found.Name)
		assert.Equal(t, model.EntityTypeBill, found.Type)
	})

	t.Run("Select entity by RID", func(t *testing.T) {
		found, err := entitiesDbHandler.SelectEntityByRID(entity.RID)
		assert.NoError(t, err)
		require.NotNil(t, found)
		assert.Equal(t, entity.ID, found.ID)
	})

	t.Run("Select entity by name and type", func(t *testing.T) {
		found, err := entitiesDbHandler.SelectEntityByName("25-O-1271", model.EntityTypeBill)
		assert.NoError(t, err)
		require.NotNil(t, found)
		assert.Equal(t, entity.ID, found.ID)
	})

	t.Run("Search entities by alias", func(t *testing.T) {
		found, err := entitiesDbHandler.SelectEntitiesBySearch("25 O 1271", nil, 10)
		assert.NoError(t, err)
		require.NotEmpty(t, found, "Expected alias search to find the canonical entity")
		assert.Equal(t, "25-O-1271", found[0].Name)
	})

	t.Run("Search entities with type filter", func(t *testing.T) {
		personType := model.EntityTypePerson
		found, err := entitiesDbHandler.SelectEntitiesBySearch("25-O-1271", &personType, 10)
		assert.NoError(t, err)
		assert.Empty(t, found, "Expected no person entity with a bill name")
	})

	t.Run("Select entities by type", func(t *testing.T) {
		found, err := entitiesDbHandler.SelectEntitiesByType(model.EntityTypeBill, 10)
		assert.NoError(t, err)
		assert.NotEmpty(t, found)
	})
}

func TestEntitiesUpdateMetadata(t *testing.T) {
	database := initDB(t)

	entitiesDbHandler, err := NewEntitiesDBHandler(database, true)
	require.NoError(t, err)

	t.Run("Update entity metadata", func(t *testing.T) {
		entity := &model.Entity{Name: "Andrea Boone", Type: model.EntityTypePerson}
		require.NoError(t, entitiesDbHandler.InsertEntity(entity))
		defer entitiesDbHandler.DeleteEntity(entity.ID)

		err := entitiesDbHandler.UpdateEntityMetadata(entity.ID, model.Metadata{"role": "Councilmember"})
		assert.NoError(t, err)

		found, err := entitiesDbHandler.SelectEntity(entity.ID)
		require.NoError(t, err)
		assert.Equal(t, "Councilmember", found.Metadata["role"])
	})
}

func TestEntitiesDelete(t *testing.T) {
	database := initDB(t)

	entitiesDbHandler, err := NewEntitiesDBHandler(database, true)
	require.NoError(t, err)

	t.Run("Delete entity", func(t *testing.T) {
		entity := &model.Entity{Name: "Parks Department", Type: model.EntityTypeOrganization}
		require.NoError(t, entitiesDbHandler.InsertEntity(entity))

		err := entitiesDbHandler.DeleteEntity(entity.ID)
		assert.NoError(t, err)

		_, err = entitiesDbHandler.SelectEntity(entity.ID)
		assert.Error(t, err, "Expected deleted entity to be gone")
	})
}
