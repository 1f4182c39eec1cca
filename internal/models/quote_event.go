package models

// QuoteEvent is the analytics record emitted for every priced design. The
// breakdown travels as a JSON-encoded string so the row stays flat for both
// Kafka consumers and the parquet schema.
type QuoteEvent struct {
	Timestamp     int64   `json:"timestamp" parquet:"name=timestamp,type=INT64"`
	EventType     string  `json:"eventType" parquet:"name=eventType,type=BYTE_ARRAY,convertedtype=UTF8"`
	QuoteID       string  `json:"quoteId" parquet:"name=quoteId,type=BYTE_ARRAY,convertedtype=UTF8"`
	CakeType      string  `json:"cakeType" parquet:"name=cakeType,type=BYTE_ARRAY,convertedtype=UTF8"`
	Flavor        string  `json:"flavor,omitempty" parquet:"name=flavor,type=BYTE_ARRAY,convertedtype=UTF8"`
	Serves        int32   `json:"serves" parquet:"name=serves,type=INT32"`
	TierCount     int32   `json:"tierCount" parquet:"name=tierCount,type=INT32"`
	ToppersCount  int32   `json:"toppersCount" parquet:"name=toppersCount,type=INT32"`
	SupportCount  int32   `json:"supportCount" parquet:"name=supportCount,type=INT32"`
	MessagesCount int32   `json:"messagesCount" parquet:"name=messagesCount,type=INT32"`
	HasDrip       bool    `json:"hasDrip" parquet:"name=hasDrip,type=BOOLEAN"`
	HasBaseBoard  bool    `json:"hasBaseBoard" parquet:"name=hasBaseBoard,type=BOOLEAN"`
	AddOnPrice    float64 `json:"addOnPrice" parquet:"name=addOnPrice,type=DOUBLE"`
	Currency      string  `json:"currency" parquet:"name=currency,type=BYTE_ARRAY,convertedtype=UTF8"`
	Breakdown     string  `json:"breakdown" parquet:"name=breakdown,type=BYTE_ARRAY,convertedtype=UTF8"`
}
