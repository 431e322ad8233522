package typed_test

import (
	"errors"
	"testing"

	"github.com/aretw0/runways/pkg/adapters/memory"
	"github.com/aretw0/runways/pkg/typed"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type waypoint struct {
	Name string `json:"name"`
	Alt  int    `json:"alt"`
}

func TestCollection_MissingDocumentIsEmpty(t *testing.T) {
	docs := memory.NewDocuments()
	var reported []error
	c := typed.NewCollection[waypoint](docs, "wp.json", nil, func(err error) { reported = append(reported, err) })

	items := c.Load()
	assert.NotNil(t, items)
	assert.Empty(t, items)
	assert.Empty(t, reported)
	assert.NoError(t, c.Err())
}

func TestCollection_SaveThenLoad(t *testing.T) {
	docs := memory.NewDocuments()
	c := typed.NewCollection[waypoint](docs, "wp.json", nil, nil)

	want := []waypoint{{"BIG", 2000}, {"OCK", 3000}}
	require.NoError(t, c.Save(want))
	assert.Equal(t, 1, docs.Writes("wp.json"))

	assert.Equal(t, want, c.Load())
	assert.Equal(t, 2, c.State().Loaded)
}

func TestCollection_SaveNilWritesEmptyArray(t *testing.T) {
	docs := memory.NewDocuments()
	c := typed.NewCollection[waypoint](docs, "wp.json", nil, nil)

	require.NoError(t, c.Save(nil))
	data, err := docs.Read("wp.json")
	require.NoError(t, err)
	assert.JSONEq(t, `[]`, string(data))
}

func TestCollection_CorruptDocumentFallsBackToEmpty(t *testing.T) {
	docs := memory.NewDocuments()
	docs.Put("wp.json", []byte(`{"not":"an array"`))

	var reported []error
	c := typed.NewCollection[waypoint](docs, "wp.json", nil, func(err error) { reported = append(reported, err) })

	assert.Empty(t, c.Load())
	require.Len(t, reported, 1)
	assert.Error(t, c.Err())
	assert.Contains(t, c.State().LastError, "failed to parse wp.json")
}

func TestCollection_WriteFailureIsReportedAndCleared(t *testing.T) {
	docs := memory.NewDocuments()
	boom := errors.New("disk full")
	docs.SetFailWrites(boom)

	var reported []error
	c := typed.NewCollection[waypoint](docs, "wp.json", nil, func(err error) { reported = append(reported, err) })

	err := c.Save([]waypoint{{"DET", 5000}})
	assert.ErrorIs(t, err, boom)
	assert.ErrorIs(t, c.Err(), boom)
	assert.Len(t, reported, 1)

	docs.SetFailWrites(nil)
	require.NoError(t, c.Save([]waypoint{{"DET", 5000}}))
	assert.NoError(t, c.Err())
}

func TestCollection_ReadFailureIsReported(t *testing.T) {
	docs := memory.NewDocuments()
	docs.FailReads = errors.New("permission denied")
	c := typed.NewCollection[waypoint](docs, "wp.json", nil, nil)

	assert.Empty(t, c.Load())
	assert.Error(t, c.Err())
}
