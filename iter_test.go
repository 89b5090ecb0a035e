package mthread

import (
	"context"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeq_FromSlice(t *testing.T) {
	s := FromSlice([]int{1, 2, 3})
	ctx := context.Background()

	v, err := s.Next(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, v)

	res, err := s.ToSlice(ctx)
	require.NoError(t, err)
	assert.Equal(t, []int{2, 3}, res)

	_, err = s.Next(ctx)
	assert.Equal(t, io.EOF, err)
}

func TestSeq_Map(t *testing.T) {
	s := FromSlice([]int{1, 2, 3})
	doubled := Map(s, func(_ context.Context, v int) (int, error) {
		return v * 2, nil
	})
	res, err := doubled.ToSlice(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []int{2, 4, 6}, res)
}

func TestSeq_Filter(t *testing.T) {
	s := FromSlice([]int{1, 2, 3, 4}).Filter(func(v int) bool { return v%2 == 0 })
	res, err := s.ToSlice(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []int{2, 4}, res)
}

func TestSeq_Take(t *testing.T) {
	s := FromSlice([]int{1, 2, 3, 4, 5}).Take(3)
	res, err := s.ToSlice(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2, 3}, res)
}

func TestSeq_Skip(t *testing.T) {
	s := FromSlice([]int{1, 2, 3, 4, 5}).Skip(2)
	res, err := s.ToSlice(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []int{3, 4, 5}, res)
}

func TestSeq_Batch(t *testing.T) {
	s := Batch(FromSlice([]int{1, 2, 3, 4, 5}), 2)
	res, err := s.ToSlice(context.Background())
	require.NoError(t, err)
	assert.Equal(t, [][]int{{1, 2}, {3, 4}, {5}}, res)
}

func TestSeq_Scan(t *testing.T) {
	s := Scan(FromSlice([]int{1, 2, 3}), 0, func(acc, v int) int { return acc + v })
	res, err := s.ToSlice(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []int{1, 3, 6}, res)
}

func TestSeq_Zip(t *testing.T) {
	a := FromSlice([]int{1, 2, 3})
	b := FromSlice([]string{"a", "b"})
	res, err := Zip(a, b).ToSlice(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []Pair[int, string]{{1, "a"}, {2, "b"}}, res)
}

func TestSeq_FromChan(t *testing.T) {
	ch := make(chan int, 3)
	ch <- 1
	ch <- 2
	close(ch)
	res, err := FromChan(ch).ToSlice(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2}, res)
}

func TestSeq_ForEachAndCount(t *testing.T) {
	sum := 0
	err := FromSlice([]int{1, 2, 3}).ForEach(context.Background(), func(v int) {
		sum += v
	})
	require.NoError(t, err)
	assert.Equal(t, 6, sum)

	n, err := FromSlice([]int{1, 2, 3, 4}).Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 4, n)
}
