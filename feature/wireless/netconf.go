package wireless

import (
	"context"
	"time"

	"github.com/Juniper/go-netconf/netconf"
)

// Session is the part of a NETCONF session the source uses.
type Session interface {
	Exec(methods ...netconf.RPCMethod) (*netconf.RPCReply, error)
	Close() error
}

// Dialer opens a NETCONF session to a controller.
type Dialer func(ctx context.Context, c Controller) (Session, error)

// SSHDialer returns a Dialer using NETCONF over SSH with password
// authentication.
func SSHDialer(timeout time.Duration) Dialer {
	return func(ctx context.Context, c Controller) (Session, error) {
		wait := timeout
		if deadline, ok := ctx.Deadline(); ok {
			if left := time.Until(deadline); left < wait {
				wait = left
			}
		}
		return netconf.DialSSHTimeout(c.Address(), netconf.SSHConfigPassword(c.Username, c.Password), wait)
	}
}

// capwapFilter selects the access point fields needed for an import.
const capwapFilter = `<get xmlns="urn:ietf:params:xml:ns:netconf:base:1.0">
  <filter>
    <access-point-oper-data xmlns="http://cisco.com/ns/yang/Cisco-IOS-XE-wireless-access-point-oper">
      <capwap-data>
        <wtp-mac/>
        <ip-addr/>
        <name/>
        <device-detail>
          <static-info>
            <board-data>
              <wtp-serial-num/>
              <wtp-enet-mac/>
            </board-data>
            <ap-models>
              <model/>
            </ap-models>
          </static-info>
          <wtp-version>
            <sw-version/>
          </wtp-version>
        </device-detail>
        <ap-location/>
        <tag-info/>
      </capwap-data>
    </access-point-oper-data>
  </filter>
</get>`
