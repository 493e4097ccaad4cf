package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestImagesDropRoom(t *testing.T) {
	images := NewImages()
	images.Put(1, "A", []byte("a"))
	images.Put(1, "B", []byte("b"))
	images.Put(2, "A", []byte("other"))

	assert.Len(t, images.All(1), 2)
	images.DropRoom(1)

	_, ok := images.Get(1, "A")
	assert.False(t, ok)
	assert.Empty(t, images.All(1))
	image, ok := images.Get(2, "A")
	assert.True(t, ok)
	assert.Equal(t, []byte("other"), image)
}
