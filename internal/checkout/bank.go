package checkout

// Fixed Japan Post Bank account that bank-transfer customers pay into.
const (
	transferBankName      = "ゆうちょ銀行"
	transferSymbol        = "12345"
	transferNumber        = "67890123"
	transferAccountHolder = "キングコング（カ"
)

// BankTransferDetails is shown when the bank-transfer payment method is
// selected. Amount is the cart total at the time of display.
type BankTransferDetails struct {
	BankName      string `json:"bankName"`
	Symbol        string `json:"symbol"`
	Number        string `json:"number"`
	AccountHolder string `json:"accountHolder"`
	Amount        int64  `json:"amount"`
}

func TransferDetails(amount int64) BankTransferDetails {
	return BankTransferDetails{
		BankName:      transferBankName,
		Symbol:        transferSymbol,
		Number:        transferNumber,
		AccountHolder: transferAccountHolder,
		Amount:        amount,
	}
}
