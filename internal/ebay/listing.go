package ebay

import (
	"fmt"
	"math"
	"net/url"
	"strings"
	"unicode/utf8"

	"github.com/lithammer/dedent"
)

const (
	// MaxTitleLen is the Trading API's fixed-price title limit.
	MaxTitleLen = 80

	// DefaultConditionID is "Used" in the marketplace condition enum.
	DefaultConditionID = 3000
)

// Fixed listing defaults. These are configuration constants of the
// demo storefront, not computed values.
const (
	categoryID      = "31387"
	currency        = "USD"
	country         = "US"
	site            = "US"
	location        = "San Francisco, CA"
	dispatchDays    = "3"
	listingDuration = "GTC"
	shippingService = "USPSPriority"
	shippingCost    = "25.00"
)

// ListingInput is a candidate fixed-price listing. Validate before
// building the request.
type ListingInput struct {
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	PhotoURL    string  `json:"photoUrl"`
	ConditionID int     `json:"conditionId,omitempty"`
}

// ValidateInput checks a candidate listing and returns a normalized
// copy. Checks run in order and the first failure wins; a title over
// the limit is rejected, never truncated. ConditionID is passed
// through unvalidated for the marketplace to reject, defaulting to
// "Used" when unset.
func ValidateInput(raw ListingInput) (ListingInput, error) {
	if strings.TrimSpace(raw.Title) == "" {
		return ListingInput{}, &ValidationError{Message: "title is required"}
	}
	if utf8.RuneCountInString(raw.Title) > MaxTitleLen {
		return ListingInput{}, &ValidationError{Message: fmt.Sprintf("title must be %d characters or less", MaxTitleLen)}
	}
	if strings.TrimSpace(raw.Description) == "" {
		return ListingInput{}, &ValidationError{Message: "description is required"}
	}
	if math.IsNaN(raw.Price) || math.IsInf(raw.Price, 0) || raw.Price <= 0 {
		return ListingInput{}, &ValidationError{Message: "price must be a positive number"}
	}
	if raw.PhotoURL == "" {
		return ListingInput{}, &ValidationError{Message: "photoUrl is required"}
	}
	u, err := url.Parse(raw.PhotoURL)
	if err != nil || !u.IsAbs() || !strings.EqualFold(u.Scheme, "https") || u.Host == "" {
		return ListingInput{}, &ValidationError{Message: "photoUrl must be a public HTTPS URL"}
	}

	input := raw
	if input.ConditionID == 0 {
		input.ConditionID = DefaultConditionID
	}
	return input, nil
}

var addItemTemplate = strings.TrimSpace(dedent.Dedent(`
	<?xml version="1.0" encoding="utf-8"?>
	<AddFixedPriceItemRequest xmlns="urn:ebay:apis:eBLBaseComponents">
	  <ErrorLanguage>en_US</ErrorLanguage>
	  <WarningLevel>High</WarningLevel>
	  <Item>
	    <Title>%s</Title>
	    <Description><![CDATA[%s]]></Description>
	    <PrimaryCategory><CategoryID>%s</CategoryID></PrimaryCategory>
	    <StartPrice currencyID="%s">%.2f</StartPrice>
	    <Country>%s</Country>
	    <Currency>%s</Currency>
	    <DispatchTimeMax>%s</DispatchTimeMax>
	    <ListingDuration>%s</ListingDuration>
	    <ListingType>FixedPriceItem</ListingType>
	    <Location>%s</Location>
	    <Quantity>1</Quantity>
	    <ConditionID>%d</ConditionID>
	    <PictureDetails><PictureURL>%s</PictureURL></PictureDetails>
	    <ShippingDetails>
	      <ShippingType>Flat</ShippingType>
	      <ShippingServiceOptions>
	        <ShippingServicePriority>1</ShippingServicePriority>
	        <ShippingService>%s</ShippingService>
	        <ShippingServiceCost currencyID="%s">%s</ShippingServiceCost>
	      </ShippingServiceOptions>
	    </ShippingDetails>
	    <ReturnPolicy>
	      <ReturnsAcceptedOption>ReturnsAccepted</ReturnsAcceptedOption>
	      <ReturnsWithinOption>Days_14</ReturnsWithinOption>
	      <RefundOption>MoneyBack</RefundOption>
	      <ShippingCostPaidByOption>Buyer</ShippingCostPaidByOption>
	    </ReturnPolicy>
	    <Site>%s</Site>
	  </Item>
	</AddFixedPriceItemRequest>
`))

// BuildAddItemXML serializes a validated listing into the
// AddFixedPriceItemRequest document. The description goes into a CDATA
// section; the title is embedded as-is, matching the wire format the
// marketplace already accepts for this storefront.
func BuildAddItemXML(input ListingInput) string {
	return fmt.Sprintf(addItemTemplate,
		input.Title,
		input.Description,
		categoryID,
		currency, input.Price,
		country,
		currency,
		dispatchDays,
		listingDuration,
		location,
		input.ConditionID,
		input.PhotoURL,
		shippingService,
		currency, shippingCost,
		site,
	)
}
