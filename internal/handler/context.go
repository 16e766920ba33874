package handler

type ContextKey string

var (
	RoleCtxKey   ContextKey = "role"
	SubCtxKey    ContextKey = "sub"
	MyInfoCtx    ContextKey = "myInfo"
	UserInfoCtx  ContextKey = "userInfo"
	VendorCtx    ContextKey = "vendor"
	HouseholdCtx ContextKey = "household"
	StaffCtx     ContextKey = "staff"
	ProductCtx   ContextKey = "product"
	OrderCtx     ContextKey = "order"
)
