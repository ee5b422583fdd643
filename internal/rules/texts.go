package rules

// User-facing texts. The app ships in Hebrew only.
const (
	chatDefaultSenderName = "הודעה חדשה"
	chatPhotoPlaceholder  = "שלח תמונה"

	partnerRequestDefaultName = "משתמש"
	partnerRequestTitle       = "בקשת שותפות חדשה 🤝"
	partnerRequestBodyFormat  = "%s רוצה לחלוק איתך הובלה! לחץ לפרטים."

	partnerApprovalTitle = "בקשת שותף ממתינה לאישור ⏳"
	partnerApprovalBody  = "השותף אישר את ההצטרפות. כנס לפרטי ההובלה כדי לאשר סופית."

	partnerRejectedDefaultName = "השותף"
	partnerRejectedTitle       = "השותפות לא אושרה ❌"
	partnerRejectedBodyFormat  = "%s לא אישר/ה את בקשת השותפות שלך."

	moverRejectedTitle = "המוביל דחה את השותפות 🛑"
	moverRejectedBody  = "המוביל לא אישר את בקשת הצירוף להובלה."

	bookingDefaultMoverName = "מוביל"
	bookingAcceptedTitle    = "ההובלה אושרה! 🚚"
	bookingAcceptedBodyFmt  = "%s אישר את בקשת ההובלה שלך."
)

// Push "type" values the app routes on.
const (
	pushTypePartnerRequest       = "partner_request"
	pushTypeMoverPartnerApproval = "mover_partner_approval"
	pushTypeSystemMessage        = "system_message"
	pushTypeOrderUpdate          = "order_update"
)
