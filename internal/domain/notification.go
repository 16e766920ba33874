package domain

type NotificationChannel string

const (
	ChannelEmail    NotificationChannel = "email"
	ChannelSMS      NotificationChannel = "sms"
	ChannelWhatsApp NotificationChannel = "whatsapp"
)

type NotificationMessage struct {
	Channel NotificationChannel `json:"channel"`
	Type    string              `json:"type"`
	To      string              `json:"to"`
	Data    any                 `json:"data"`
}

type CreateUserMailData struct {
	FullName string `json:"fullName"`
	Username string `json:"username"`
	Password string `json:"password"`
}

type ResetPasswordMailData struct {
	FullName   string `json:"fullName"`
	OTP        string `json:"otp"`
	Expiration int    `json:"expiration"`
}

type TestMessageData struct {
	Body string `json:"body"`
}
