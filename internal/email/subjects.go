package email

import "fmt"

const (
	subjectPaymentReceiptFmt = "Betaling ontvangen voor offerte %s"
	subjectFollowUpFirst     = "Uw offerte staat nog voor u klaar"
	subjectFollowUpReminder  = "Herinnering: uw offerte wacht op u"
	subjectFollowUpFinal     = "Laatste herinnering voor uw offerte"
	followUpCTALabelPortal   = "Bekijk uw offerte"
)

func followUpSubject(sequence int) string {
	switch {
	case sequence <= 1:
		return subjectFollowUpFirst
	case sequence == 2:
		return subjectFollowUpReminder
	default:
		return subjectFollowUpFinal
	}
}

func followUpCTALabel(sequence int) string {
	if sequence >= 3 {
		return "Neem contact op"
	}
	return followUpCTALabelPortal
}

func paymentTypeLabel(paymentType string) string {
	switch paymentType {
	case "advance_50":
		return "Aanbetaling (50%)"
	case "balance_50":
		return "Restbetaling (50%)"
	default:
		return fmt.Sprintf("Betaling (%s)", paymentType)
	}
}
