package adb

import (
	"bytes"
	"errors"
	"fmt"
	"image"

	"github.com/PuerkitoBio/goquery"
)

var (
	// ErrElementNotFound is returned when neither the text nor the
	// resource-id selector matches a node in the UI dump.
	ErrElementNotFound = errors.New("target element not found in ui dump")
	// errMalformedBounds is returned when a node's bounds attribute is unparsable.
	errMalformedBounds = errors.New("malformed bounds attribute")
)

// FindTapPoint locates the target UI element in a uiautomator dump and
// returns the center of its bounds. The element is matched by its text
// label first, then by resource-id as a fallback; either may be empty to
// skip that selector.
func FindTapPoint(dump []byte, text, resourceID string) (image.Point, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(dump))
	if err != nil {
		return image.Point{}, fmt.Errorf("parse ui dump: %w", err)
	}

	node := findNode(doc, "text", text)
	if node == nil {
		node = findNode(doc, "resource-id", resourceID)
	}

	if node == nil {
		return image.Point{}, ErrElementNotFound
	}

	bounds, ok := node.Attr("bounds")
	if !ok {
		return image.Point{}, fmt.Errorf("%w: attribute missing", errMalformedBounds)
	}

	return boundsCenter(bounds)
}

// findNode selects the first node whose attribute equals the value.
func findNode(doc *goquery.Document, attribute, value string) *goquery.Selection {
	if value == "" {
		return nil
	}

	selection := doc.Find(fmt.Sprintf("node[%s='%s']", attribute, value)).First()
	if selection.Length() == 0 {
		return nil
	}

	return selection
}

// boundsCenter parses a uiautomator bounds string like "[x1,y1][x2,y2]"
// and returns its center point.
func boundsCenter(bounds string) (image.Point, error) {
	var x1, y1, x2, y2 int

	if _, err := fmt.Sscanf(bounds, "[%d,%d][%d,%d]", &x1, &y1, &x2, &y2); err != nil {
		return image.Point{}, fmt.Errorf("%w: %q", errMalformedBounds, bounds)
	}

	if x2 < x1 || y2 < y1 {
		return image.Point{}, fmt.Errorf("%w: %q", errMalformedBounds, bounds)
	}

	return image.Point{
		X: (x1 + x2) / 2,
		Y: (y1 + y2) / 2,
	}, nil
}
