package bot

import (
	"encoding/json"
	"errors"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog/log"
)

type Client struct {
	nc      *nats.Conn
	channel string
}

func NewClient(natsURL, channel string) (*Client, error) {
	nc, err := nats.Connect(natsURL)
	if err != nil {
		return nil, err
	}
	return &Client{nc: nc, channel: channel}, nil
}

func (c *Client) Close() {
	c.nc.Close()
}

// RequestFill sends a fill request to the service and waits for the reply,
// retrying a couple of times if the request times out.
func (c *Client) RequestFill(req *FillRequest) (*FillResponse, error) {
	data, err := json.Marshal(req)
	if err != nil {
		return nil, err
	}

	var res *nats.Msg
	err = retry.Do(
		func() error {
			var err error
			res, err = c.nc.Request(c.channel, data, RequestTimeout)
			return err
		},
		retry.Attempts(3),
		retry.DelayType(func(n uint, err error, config *retry.Config) time.Duration {
			log.Err(err).Uint("n", n).Msg("no reply from fill service, retrying")
			return retry.BackOffDelay(n, err, config)
		}),
	)
	if err != nil {
		if c.nc.LastError() != nil {
			log.Error().Msgf("%v for request", c.nc.LastError())
		}
		return nil, err
	}

	resp := &FillResponse{}
	if err := json.Unmarshal(res.Data, resp); err != nil {
		return nil, err
	}
	if resp.Error != "" {
		return nil, errors.New("fill service returned: " + resp.Error)
	}
	return resp, nil
}
