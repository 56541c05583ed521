package timetable

import (
	"testing"

	"github.com/Silence-o0/Schedule/pkg/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestArena(t *testing.T) {
	t.Run("Handles survive removals", func(t *testing.T) {
		timetable := New()
		first := timetable.Add(lecture(0, 0, 0, 0))
		second := timetable.Add(lecture(0, 0, 0, 0)) // Duplicate values keep distinct identities

		require.True(t, timetable.Remove(first))

		assert.Equal(t, 1, timetable.Len())
		assert.Equal(t, []Handle{second}, timetable.Handles())
		assert.Equal(t, []Handle{second}, timetable.AtSlot(monday1))
		assert.False(t, timetable.Remove(first))
	})

	t.Run("Replace moves the slot index", func(t *testing.T) {
		timetable := New()
		handle := timetable.Add(lecture(0, 0, 0, 0))

		moved := lecture(0, 0, 0, 0)
		moved.Slot = model.Slot{Day: model.Friday, Period: 4}
		require.True(t, timetable.Replace(handle, moved))

		assert.Empty(t, timetable.AtSlot(monday1))
		assert.Equal(t, []Handle{handle}, timetable.AtSlot(moved.Slot))
	})

	t.Run("Clone is independent and keeps handles", func(t *testing.T) {
		timetable := New()
		handle := timetable.Add(lecture(0, 0, 0, 0))

		clone := timetable.Clone()
		changed := lecture(0, 0, 0, 9)
		clone.Replace(handle, changed)
		clone.Add(lecture(1, 1, 1, 1))

		original, _ := timetable.Lesson(handle)
		assert.Equal(t, uint64(0), original.Room)
		assert.Equal(t, 1, timetable.Len())
		assert.Equal(t, 2, clone.Len())
		lesson, ok := clone.Lesson(handle)
		assert.True(t, ok)
		assert.Equal(t, changed, lesson)
	})

	t.Run("Equal compares multisets", func(t *testing.T) {
		timetable1 := FromLessons([]model.Lesson{lecture(0, 0, 0, 0), lecture(1, 1, 1, 1), lecture(1, 1, 1, 1)})
		timetable2 := FromLessons([]model.Lesson{lecture(1, 1, 1, 1), lecture(0, 0, 0, 0), lecture(1, 1, 1, 1)})
		timetable3 := FromLessons([]model.Lesson{lecture(1, 1, 1, 1), lecture(0, 0, 0, 0), lecture(0, 0, 0, 0)})

		assert.True(t, Equal(timetable1, timetable2))
		assert.False(t, Equal(timetable1, timetable3))
	})
}

func TestSimilarity(t *testing.T) {
	timetable1 := FromLessons([]model.Lesson{lecture(0, 0, 0, 0), lecture(1, 1, 1, 1)})
	timetable2 := FromLessons([]model.Lesson{lecture(0, 0, 0, 0), lecture(2, 2, 2, 2)})
	timetable3 := FromLessons([]model.Lesson{lecture(3, 3, 3, 3)})

	assert.Equal(t, 1.0, Similarity(timetable1, timetable1.Clone()))
	assert.InDelta(t, 1.0/3.0, Similarity(timetable1, timetable2), 1e-9)
	assert.Equal(t, 0.0, Similarity(timetable1, timetable3))
	assert.Equal(t, 1.0, Similarity(New(), New()))
}
