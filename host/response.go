package host

import "encoding/json"

// Attribute is a single observability key-value pair emitted by a call.
type Attribute struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// Message is an outbound effect queued by a call. The runtime applies
// queued messages in order, and only if the whole call succeeds.
type Message interface {
	isMessage()
}

// BankSend moves coins from the executing contract to another account.
type BankSend struct {
	ToAddress Address `json:"to_address"`
	Amount    Coins   `json:"amount"`
}

func (BankSend) isMessage() {}

// ContractCall invokes an execute entry point of another contract,
// attaching funds taken from the executing contract.
type ContractCall struct {
	Contract Address         `json:"contract"`
	Msg      json.RawMessage `json:"msg"`
	Funds    Coins           `json:"funds"`
}

func (ContractCall) isMessage() {}

// Response is the successful result of an entry point: emitted attributes
// plus queued outbound messages.
type Response struct {
	Attributes []Attribute
	Messages   []Message
}

// NewResponse returns an empty response.
func NewResponse() *Response {
	return &Response{}
}

// AddAttribute appends an observability attribute.
func (r *Response) AddAttribute(key, value string) *Response {
	r.Attributes = append(r.Attributes, Attribute{Key: key, Value: value})
	return r
}

// AddMessage queues an outbound message.
func (r *Response) AddMessage(msg Message) *Response {
	r.Messages = append(r.Messages, msg)
	return r
}

// Attribute returns the value of the first attribute with the given key.
func (r *Response) Attribute(key string) (string, bool) {
	for _, a := range r.Attributes {
		if a.Key == key {
			return a.Value, true
		}
	}
	return "", false
}
