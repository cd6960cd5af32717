package models

type Subscription string

const (
	SubscriptionFree Subscription = "free"
	SubscriptionPro  Subscription = "pro"
)

func (s *Subscription) Scan(value interface{}) error {
	*s = Subscription(value.(string))
	return nil
}

func (s Subscription) Value() (string, error) {
	return string(s), nil
}
