package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleForest() []Question {
	return []Question{
		{ID: 1, Text: "root", Children: []Question{
			{ID: 2, Text: "a", ToResolve: []ToResolveItem{{ID: 10, Text: "x", Completed: true}, {ID: 11, Text: "y"}}},
			{ID: 3, Text: "b", Children: []Question{
				{ID: 4, Text: "b1", ToResolve: []ToResolveItem{{ID: 12, Text: "z"}}},
			}},
		}},
		{ID: 5, Text: "other"},
	}
}

func TestWalkOrderAndLevels(t *testing.T) {
	var ids []int64
	var levels []int
	Walk(sampleForest(), func(q Question, level int) bool {
		ids = append(ids, q.ID)
		levels = append(levels, level)
		return true
	})
	assert.Equal(t, []int64{1, 2, 3, 4, 5}, ids)
	assert.Equal(t, []int{0, 1, 1, 2, 0}, levels)
}

func TestWalkSkipsSubtree(t *testing.T) {
	var ids []int64
	Walk(sampleForest(), func(q Question, _ int) bool {
		ids = append(ids, q.ID)
		return q.ID != 3
	})
	assert.Equal(t, []int64{1, 2, 3, 5}, ids)
}

func TestFind(t *testing.T) {
	q, ok := Find(sampleForest(), 4)
	require.True(t, ok)
	assert.Equal(t, "b1", q.Text)

	_, ok = Find(sampleForest(), 99)
	assert.False(t, ok)
}

func TestCountItems(t *testing.T) {
	done, total := CountItems(sampleForest())
	assert.Equal(t, 1, done)
	assert.Equal(t, 3, total)
}

func TestNextStatus(t *testing.T) {
	assert.Equal(t, StatusInProgress, NextStatus(""))
	assert.Equal(t, StatusInProgress, NextStatus(StatusPending))
	assert.Equal(t, StatusDone, NextStatus(StatusInProgress))
	assert.Equal(t, StatusPending, NextStatus(StatusDone))
}

func TestDecodeNullableFields(t *testing.T) {
	raw := `[{"id":7,"text":"q","time_frame":null,"status":"pending","current_answer":null,
		"to_resolve":[{"id":1,"text":"t","completed":false}],"children":[]}]`
	var qs []Question
	require.NoError(t, json.Unmarshal([]byte(raw), &qs))
	require.Len(t, qs, 1)
	assert.Equal(t, "", qs[0].TimeFrame)
	assert.Nil(t, qs[0].CurrentAnswer)
	assert.Equal(t, "", qs[0].Answer())
	assert.Len(t, qs[0].ToResolve, 1)
}

func TestPatchOmitsUnsetFields(t *testing.T) {
	done := true
	b, err := json.Marshal(ToResolvePatch{Completed: &done})
	require.NoError(t, err)
	assert.JSONEq(t, `{"completed":true}`, string(b))

	b, err = json.Marshal(NewQuestion{Text: "root"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"text":"root"}`, string(b))
}
