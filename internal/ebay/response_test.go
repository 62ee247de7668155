package ebay

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseAddItemResponseSuccess(t *testing.T) {
	body := `<?xml version="1.0"?><AddFixedPriceItemResponse><Ack>Success</Ack><ItemID>123456789</ItemID></AddFixedPriceItemResponse>`
	result := ParseAddItemResponse(body)
	assert.True(t, result.OK)
	assert.Equal(t, "123456789", result.ItemID)
}

func TestParseAddItemResponseAckIsCaseInsensitive(t *testing.T) {
	body := `<ack>SUCCESS</ack><itemid>42</itemid>`
	result := ParseAddItemResponse(body)
	assert.True(t, result.OK)
	assert.Equal(t, "42", result.ItemID)
}

func TestParseAddItemResponseWarningAckIsFailure(t *testing.T) {
	// Only Ack=Success counts; "Warning" responses are treated as
	// failures even when an ItemID is present.
	body := `<Ack>Warning</Ack><ItemID>42</ItemID><LongMessage>Picture quality low</LongMessage>`
	result := ParseAddItemResponse(body)
	assert.False(t, result.OK)
	assert.Equal(t, "Picture quality low", result.Message)
}

func TestParseAddItemResponseFailureWithLongMessage(t *testing.T) {
	body := `<Ack>Failure</Ack><Errors><ShortMessage>Bad category</ShortMessage><LongMessage>Category invalid</LongMessage></Errors>`
	result := ParseAddItemResponse(body)
	assert.False(t, result.OK)
	assert.Equal(t, "Category invalid", result.Message)
	assert.Equal(t, body, result.Raw)
}

func TestParseAddItemResponseFailureWithShortMessageOnly(t *testing.T) {
	body := `<Ack>Failure</Ack><Errors><ShortMessage>Bad category</ShortMessage></Errors>`
	result := ParseAddItemResponse(body)
	assert.False(t, result.OK)
	assert.Equal(t, "Bad category", result.Message)
}

func TestParseAddItemResponseFailureWithoutMessages(t *testing.T) {
	body := `<Ack>Failure</Ack>`
	result := ParseAddItemResponse(body)
	assert.False(t, result.OK)
	assert.Equal(t, "Failed to create listing", result.Message)
	assert.Equal(t, body, result.Raw)
}

func TestParseAddItemResponseSuccessWithoutItemIDIsFailure(t *testing.T) {
	body := `<Ack>Success</Ack>`
	result := ParseAddItemResponse(body)
	assert.False(t, result.OK)
	assert.Equal(t, "Failed to create listing", result.Message)
}

func TestParseAddItemResponseFirstTagWins(t *testing.T) {
	body := `<Ack>Failure</Ack><LongMessage>first</LongMessage><LongMessage>second</LongMessage>`
	result := ParseAddItemResponse(body)
	assert.Equal(t, "first", result.Message)
}

func TestParseAddItemResponseEmptyBody(t *testing.T) {
	result := ParseAddItemResponse("")
	assert.False(t, result.OK)
	assert.Equal(t, "Failed to create listing", result.Message)
}
