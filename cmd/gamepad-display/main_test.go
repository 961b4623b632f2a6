package main

import (
	"image/color"
	"testing"

	"go.viam.com/test"
)

func TestOverlayColor(t *testing.T) {
	c, err := overlayColor("#e03c31")
	test.That(t, err, test.ShouldBeNil)
	test.That(t, c, test.ShouldResemble, color.RGBA{R: 0xe0, G: 0x3c, B: 0x31, A: 0xff})

	_, err = overlayColor("red")
	test.That(t, err, test.ShouldNotBeNil)
}
