package booking

import "fmt"

// XPath selectors for the MyVSCloud reservation portal. The portal offers no
// API contract; these track the rendered markup and break when it changes.
const (
	selLoginUsername = `//input[@id='weblogin_username']`
	selLoginPassword = `//input[@id='weblogin_password']`
	selLoginButton   = `//button[@id='weblogin_buttonlogin']`
	selLoginError    = `//div[contains(@class, 'errormessage')]`

	// Shown when the account already has a session open elsewhere.
	selActiveSessionAlert    = `//h1[normalize-space()='Login Warning - Active Session Alert']`
	selActiveSessionContinue = `//button[@id='loginresumesession_buttoncontinue']`

	selFacilityTile   = `//a[contains(@class, 'tile')]//h2[contains(text(), 'Field House Courts')]/ancestor::a`
	selPostLoginMark  = `//h2[normalize-space()='Field House Courts']`
	selFacilitySearch = `//*[contains(text(), 'Facility Search')]`

	selClearSelection = `//button[contains(@class, 'multiselectlist__clearbutton') and .//span[contains(text(), 'Clear Selection')]]`

	selDatePicker     = `//button[contains(@class, 'datepicker-button')]`
	selMonthDropdown  = `//button[contains(@id, 'month_selection_button')]`
	selDayDropdown    = `//button[contains(@id, 'day_selection_button')]`
	selYearDropdown   = `//button[contains(@id, 'year_selection_button')]`
	selDatePickerDone = `//button[contains(@class, 'datepicker-button-primary') and contains(text(), 'Done')]`
	selSearchButton   = `//button[contains(@id, 'frwebsearch_buttonsearch')]`

	selSlotGrid    = `//*[contains(@class, 'dateblock')]`
	selCourtTitles = `//div[contains(@class, 'result-content')]//h2/span`

	selSelectionOverlay = `//*[contains(@class, 'instant-overlay-content')]`
	selOverlayContinue  = `//button[contains(text(), 'Continue') or contains(text(), 'Book') or contains(text(), 'Add to Cart')]`

	selAddToCart     = `//button[contains(@class, 'multiselectlist__addbutton') and .//span[contains(text(), 'Add To Cart')]]`
	selBookingHeader = `//h1[@id='processingprompts_header']`
	selPhoneField    = `//input[@id='question150906610']`
	selReasonField   = `//input[@id='question150906642']`
	selCheckoutNext  = `//button[contains(text(), 'Continue') or contains(text(), 'Next')]`

	selBookingSuccess = `//*[contains(text(), 'Reservation Complete') or contains(@class, 'confirmation-number')]`
	selBookingFailure = `//div[contains(@class, 'errormessage') or contains(@class, 'alert--error')]`

	selUserMenu      = `//span[contains(@class, 'menuitem__title')]`
	selLogoutOption  = `//span[contains(@class, 'menuitem__text') and text()='Logout']`
	selSignedOutMark = `//span[@class='menuitem__text' and text()='Sign In / Register']`
)

// selListOption addresses one entry in the portal's month/day/year dropdowns.
func selListOption(text string) string {
	return fmt.Sprintf(`//li[@role='option']//span[contains(@class, 'listitem__text') and text()='%s']`, text)
}

// selSlotButton addresses the open ("success") cart button for one court and
// one hour-long slot label inside the results grid.
func selSlotButton(court, slotLabel string) string {
	return fmt.Sprintf(
		`//div[contains(@class, 'result-content')][.//h2/span[normalize-space()='%s']]`+
			`//a[contains(@class, 'cart-button') and contains(@class, 'success') and contains(., '%s')]`,
		court, slotLabel,
	)
}
