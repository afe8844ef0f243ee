package model_test

import (
	"seva/shared/model"
	"testing"

	"github.com/stretchr/testify/assert"
)

type entry struct {
	Status string `json:"status"`
	Note   string `json:"note"`
}

func TestJSONB_ValueScan(t *testing.T) {
	original := model.NewJSONB([]entry{{Status: "pending", Note: "created"}})

	value, err := original.Value()
	assert.NoError(t, err)

	var scanned model.JSONB[[]entry]
	assert.NoError(t, scanned.Scan(value))
	assert.Equal(t, original.Data, scanned.Data)

	assert.NoError(t, scanned.Scan(`[{"status":"assigned"}]`))
	assert.Equal(t, "assigned", scanned.Data[0].Status)

	assert.NoError(t, scanned.Scan(nil))
	assert.Nil(t, scanned.Data)

	assert.Error(t, scanned.Scan(42))
}
