package domain

// GuardRule names a protection profile applied to one kind of request.
type GuardRule string

const (
	GuardSignUp     GuardRule = "signup"
	GuardSignIn     GuardRule = "signin"
	GuardPrePayment GuardRule = "pre_payment"
	GuardAdminWrite GuardRule = "admin_write"
	GuardCoupon     GuardRule = "coupon_write"
)

// GuardRequest carries what the abuse guard inspects. Email is empty for
// rules that do not validate an address.
type GuardRequest struct {
	Rule      GuardRule
	ClientIP  string
	UserAgent string
	Email     string
}
