package todo

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr(t time.Time) *time.Time { return &t }

func TestEncodeDecode_RoundTrip(t *testing.T) {
	added := time.Date(2024, 3, 5, 9, 30, 0, 123_000_000, time.UTC)
	done := added.Add(time.Hour)
	tasks := []Task{
		{ID: "a1", Text: "Buy milk", DateAdded: added},
		{ID: "b2", Text: "Walk dog", Completed: true, DateAdded: added.Add(time.Minute), DateCompleted: ptr(done), DateModified: ptr(done)},
		{ID: "c3", Text: "Call mom", DateAdded: added.Add(2 * time.Minute), DateModified: ptr(done)},
	}

	data, err := Encode(tasks)
	require.NoError(t, err)

	decoded, repaired, err := Decode(data)
	require.NoError(t, err)
	assert.Zero(t, repaired)
	require.Len(t, decoded, len(tasks))

	for i := range tasks {
		assert.Equal(t, tasks[i].ID, decoded[i].ID)
		assert.Equal(t, tasks[i].Text, decoded[i].Text)
		assert.Equal(t, tasks[i].Completed, decoded[i].Completed)
		assert.True(t, tasks[i].DateAdded.Equal(decoded[i].DateAdded))
		assertSameOptional(t, tasks[i].DateCompleted, decoded[i].DateCompleted)
		assertSameOptional(t, tasks[i].DateModified, decoded[i].DateModified)
	}
}

func assertSameOptional(t *testing.T, want, got *time.Time) {
	t.Helper()
	if want == nil {
		assert.Nil(t, got)
		return
	}
	require.NotNil(t, got)
	assert.True(t, want.Equal(*got), "want %v, got %v", want, got)
}

func TestEncode_EmptyCollection(t *testing.T) {
	data, err := Encode(nil)
	require.NoError(t, err)
	assert.JSONEq(t, `[]`, string(data))
}

func TestEncode_WireFormat(t *testing.T) {
	added := time.Date(2024, 3, 5, 9, 30, 0, 0, time.UTC)
	data, err := Encode([]Task{{ID: "x", Text: "Task", DateAdded: added}})
	require.NoError(t, err)
	assert.JSONEq(t, `[{"id":"x","text":"Task","completed":false,"dateAdded":"2024-03-05T09:30:00.000Z","dateCompleted":null,"dateModified":null}]`, string(data))
}

func TestDecode_Malformed(t *testing.T) {
	_, _, err := Decode([]byte(`{not json`))
	assert.Error(t, err)

	_, _, err = Decode([]byte(`{"id":"x"}`))
	assert.Error(t, err)
}

func TestDecode_RepairsRecords(t *testing.T) {
	data := []byte(`[
		{"id":"a","text":"Done but undated","completed":true,"dateAdded":"2024-03-05T09:30:00.000Z","dateCompleted":null,"dateModified":null},
		{"id":"b","text":"Open but dated","completed":false,"dateAdded":"2024-03-05T09:30:00.000Z","dateCompleted":"2024-03-05T10:00:00.000Z","dateModified":null},
		{"id":"a","text":"Duplicate id","completed":false,"dateAdded":"2024-03-05T09:30:00.000Z"},
		{"id":"","text":"No id","completed":false,"dateAdded":"2024-03-05T09:30:00.000Z"},
		{"id":"c","text":"","completed":false,"dateAdded":"2024-03-05T09:30:00.000Z"},
		{"id":"d","text":"Bad date","completed":false,"dateAdded":"yesterday"}
	]`)

	tasks, repaired, err := Decode(data)
	require.NoError(t, err)
	assert.Equal(t, 6, repaired)
	require.Len(t, tasks, 2)

	assert.Equal(t, "a", tasks[0].ID)
	require.NotNil(t, tasks[0].DateCompleted)
	assert.True(t, tasks[0].DateAdded.Equal(*tasks[0].DateCompleted))

	assert.Equal(t, "b", tasks[1].ID)
	assert.Nil(t, tasks[1].DateCompleted)
}

func TestDecode_TrimsAndDropsRepeatedText(t *testing.T) {
	data := []byte(`[
		{"id":"a","text":"  Buy milk ","completed":false,"dateAdded":"2024-03-05T09:30:00.000Z"},
		{"id":"b","text":"buy MILK","completed":false,"dateAdded":"2024-03-05T09:31:00.000Z"},
		{"id":"c","text":"Walk dog","completed":false,"dateAdded":"2024-03-05T09:32:00.000Z"}
	]`)

	tasks, repaired, err := Decode(data)
	require.NoError(t, err)
	assert.Equal(t, 2, repaired)
	require.Len(t, tasks, 2)

	assert.Equal(t, "a", tasks[0].ID)
	assert.Equal(t, "Buy milk", tasks[0].Text)
	assert.Equal(t, "c", tasks[1].ID)
}
