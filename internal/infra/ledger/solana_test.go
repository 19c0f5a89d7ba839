package ledger

import (
	"bytes"
	"testing"

	bin "github.com/gagliardetto/binary"
	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/require"
)

func newPubkey(t *testing.T) solana.PublicKey {
	t.Helper()
	kp, err := NewSolanaCrypto().NewKeypair()
	require.NoError(t, err)
	return kp.PublicKey
}

func TestSignVerifyRoundTrip(t *testing.T) {
	c := NewSolanaCrypto()
	kp, err := c.NewKeypair()
	require.NoError(t, err)
	require.Len(t, kp.PrivateKey, 64)
	require.Equal(t, kp.PublicKey, kp.PrivateKey.PublicKey())

	msg := []byte("hello")
	sig, err := c.Sign(kp.PrivateKey, msg)
	require.NoError(t, err)
	require.True(t, c.Verify(kp.PublicKey, msg, sig))
	require.False(t, c.Verify(kp.PublicKey, []byte("hellp"), sig))

	other, err := c.NewKeypair()
	require.NoError(t, err)
	require.False(t, c.Verify(other.PublicKey, msg, sig))
}

func TestSignRejectsShortKey(t *testing.T) {
	_, err := NewSolanaCrypto().Sign(solana.PrivateKey(make([]byte, 10)), []byte("x"))
	require.Error(t, err)
}

func TestKeypairFromSeedDeterministic(t *testing.T) {
	c := NewSolanaCrypto()
	seed := bytes.Repeat([]byte{7}, 32)
	a, err := c.KeypairFromSeed(seed)
	require.NoError(t, err)
	b, err := c.KeypairFromSeed(seed)
	require.NoError(t, err)
	require.Equal(t, a.PublicKey, b.PublicKey)
	require.Equal(t, seed, []byte(a.PrivateKey[:32]))

	_, err = c.KeypairFromSeed(seed[:31])
	require.Error(t, err)
}

func TestSystemTransferLayout(t *testing.T) {
	from, to := newPubkey(t), newPubkey(t)
	ix, err := NewSolanaPrograms().SystemTransfer(from, to, 1_500_000)
	require.NoError(t, err)
	require.Equal(t, solana.SystemProgramID, ix.ProgramID)
	require.Len(t, ix.Accounts, 2)
	require.Equal(t, AccountMeta{PublicKey: from, IsSigner: true, IsWritable: true}, ix.Accounts[0])
	require.Equal(t, AccountMeta{PublicKey: to, IsSigner: false, IsWritable: true}, ix.Accounts[1])

	dec := bin.NewBinDecoder(ix.Data)
	tag, err := dec.ReadUint32(bin.LE)
	require.NoError(t, err)
	require.Equal(t, uint32(2), tag)
	lamports, err := dec.ReadUint64(bin.LE)
	require.NoError(t, err)
	require.Equal(t, uint64(1_500_000), lamports)
}

func TestMintToLayout(t *testing.T) {
	mint, dest, authority := newPubkey(t), newPubkey(t), newPubkey(t)
	ix, err := NewSolanaPrograms().MintTo(mint, dest, authority, 42)
	require.NoError(t, err)
	require.Equal(t, solana.TokenProgramID, ix.ProgramID)
	require.Equal(t, []AccountMeta{
		{PublicKey: mint, IsWritable: true},
		{PublicKey: dest, IsWritable: true},
		{PublicKey: authority, IsSigner: true},
	}, ix.Accounts)

	dec := bin.NewBinDecoder(ix.Data)
	tag, err := dec.ReadUint8()
	require.NoError(t, err)
	require.Equal(t, uint8(7), tag)
	amount, err := dec.ReadUint64(bin.LE)
	require.NoError(t, err)
	require.Equal(t, uint64(42), amount)
}

func TestTokenTransferLayout(t *testing.T) {
	src, dst, owner := newPubkey(t), newPubkey(t), newPubkey(t)
	ix, err := NewSolanaPrograms().TokenTransfer(src, dst, owner, 99)
	require.NoError(t, err)
	require.Equal(t, solana.TokenProgramID, ix.ProgramID)
	require.Len(t, ix.Accounts, 3)
	require.Equal(t, owner, ix.Accounts[2].PublicKey)
	require.True(t, ix.Accounts[2].IsSigner)
	require.False(t, ix.Accounts[0].IsSigner)

	dec := bin.NewBinDecoder(ix.Data)
	tag, err := dec.ReadUint8()
	require.NoError(t, err)
	require.Equal(t, uint8(3), tag)
	amount, err := dec.ReadUint64(bin.LE)
	require.NoError(t, err)
	require.Equal(t, uint64(99), amount)
}

func TestInitializeMintLayout(t *testing.T) {
	mint, authority := newPubkey(t), newPubkey(t)
	ix, err := NewSolanaPrograms().InitializeMint(mint, authority, authority, 6)
	require.NoError(t, err)
	require.Equal(t, solana.TokenProgramID, ix.ProgramID)
	require.Equal(t, AccountMeta{PublicKey: mint, IsWritable: true}, ix.Accounts[0])
	require.Equal(t, solana.SysVarRentPubkey, ix.Accounts[1].PublicKey)

	require.Equal(t, byte(0), ix.Data[0])
	require.Equal(t, byte(6), ix.Data[1])
	require.Equal(t, authority[:], ix.Data[2:34])
	require.Equal(t, authority[:], ix.Data[len(ix.Data)-32:])
}

func TestAssociatedTokenAddressDeterministic(t *testing.T) {
	p := NewSolanaPrograms()
	owner, other, mint := newPubkey(t), newPubkey(t), newPubkey(t)
	a, err := p.AssociatedTokenAddress(owner, mint)
	require.NoError(t, err)
	b, err := p.AssociatedTokenAddress(owner, mint)
	require.NoError(t, err)
	require.Equal(t, a, b)

	c, err := p.AssociatedTokenAddress(other, mint)
	require.NoError(t, err)
	require.NotEqual(t, a, c)
}
