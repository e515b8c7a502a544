package escrow

import (
	"testing"

	"github.com/iov-one/timelock/errors"
	"github.com/iov-one/timelock/weavetest"
)

func TestNativeEscrowValidate(t *testing.T) {
	sender := weavetest.NewCondition().Address()
	receiver := weavetest.NewCondition().Address()
	vault := weavetest.NewCondition().Address()

	cases := map[string]struct {
		escrow  NativeEscrow
		wantErr *errors.Error
	}{
		"live": {
			escrow: NativeEscrow{Sender: sender, Receiver: receiver, Vault: vault, Amount: 5, StartTime: 100, State: StateLive},
		},
		"settled": {
			escrow: NativeEscrow{Sender: sender, Receiver: receiver, Vault: vault, Amount: 5, StartTime: 100, State: StateSettled, SettledAt: 200},
		},
		"settled without time": {
			escrow:  NativeEscrow{Sender: sender, Receiver: receiver, Vault: vault, Amount: 5, StartTime: 100, State: StateSettled},
			wantErr: errors.ErrState,
		},
		"unknown state": {
			escrow:  NativeEscrow{Sender: sender, Receiver: receiver, Vault: vault, Amount: 5, StartTime: 100},
			wantErr: errors.ErrState,
		},
		"zero amount": {
			escrow:  NativeEscrow{Sender: sender, Receiver: receiver, Vault: vault, StartTime: 100, State: StateLive},
			wantErr: errors.ErrInvalidAmount,
		},
		"missing receiver": {
			escrow:  NativeEscrow{Sender: sender, Vault: vault, Amount: 5, StartTime: 100, State: StateLive},
			wantErr: errors.ErrInput,
		},
		"vault is the sender": {
			escrow:  NativeEscrow{Sender: sender, Receiver: receiver, Vault: sender, Amount: 5, StartTime: 100, State: StateLive},
			wantErr: errors.ErrInput,
		},
		"negative start": {
			escrow:  NativeEscrow{Sender: sender, Receiver: receiver, Vault: vault, Amount: 5, StartTime: -1, State: StateLive},
			wantErr: errors.ErrState,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			if err := tc.escrow.Validate(); !tc.wantErr.Is(err) {
				t.Fatalf("unexpected error: %+v", err)
			}
		})
	}
}

func TestTokenEscrowValidate(t *testing.T) {
	sender := weavetest.NewCondition().Address()
	receiver := weavetest.NewCondition().Address()
	vault := weavetest.NewCondition().Address()
	mint := weavetest.NewCondition().Address()

	cases := map[string]struct {
		escrow  TokenEscrow
		wantErr *errors.Error
	}{
		"live": {
			escrow: TokenEscrow{Sender: sender, Receiver: receiver, Vault: vault, Mint: mint, Amount: 500, StartTime: 100, State: StateLive},
		},
		"missing mint": {
			escrow:  TokenEscrow{Sender: sender, Receiver: receiver, Vault: vault, Amount: 500, StartTime: 100, State: StateLive},
			wantErr: errors.ErrInput,
		},
		"vault is the receiver": {
			escrow:  TokenEscrow{Sender: sender, Receiver: receiver, Vault: receiver, Mint: mint, Amount: 500, StartTime: 100, State: StateLive},
			wantErr: errors.ErrInput,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			if err := tc.escrow.Validate(); !tc.wantErr.Is(err) {
				t.Fatalf("unexpected error: %+v", err)
			}
		})
	}
}

func TestStateString(t *testing.T) {
	for state, want := range map[State]string{StateLive: "live", StateSettled: "settled", State(7): "unknown"} {
		if got := state.String(); got != want {
			t.Fatalf("want %q, got %q", want, got)
		}
	}
}
