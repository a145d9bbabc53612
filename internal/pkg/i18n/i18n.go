// Package i18n negotiates the request language and formats user-facing
// messages. The language travels in the request context; there is no global
// current locale.
package i18n

import (
	"context"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"
)

// Supported languages, default first.
var Supported = []language.Tag{language.English, language.Arabic}

var matcher = language.NewMatcher(Supported)

var cat = newCatalog()

type ctxKey struct{}

// Negotiate picks the best supported language for an Accept-Language header.
func Negotiate(acceptLanguage string) language.Tag {
	tags, _, err := language.ParseAcceptLanguage(acceptLanguage)
	if err != nil || len(tags) == 0 {
		return language.English
	}
	_, idx, conf := matcher.Match(tags...)
	if conf == language.No {
		return language.English
	}
	return Supported[idx]
}

// WithTag returns ctx carrying tag.
func WithTag(ctx context.Context, tag language.Tag) context.Context {
	return context.WithValue(ctx, ctxKey{}, tag)
}

// FromContext returns the language in ctx, English when unset.
func FromContext(ctx context.Context) language.Tag {
	if ctx != nil {
		if tag, ok := ctx.Value(ctxKey{}).(language.Tag); ok {
			return tag
		}
	}
	return language.English
}

// T formats key in the language of ctx. Keys are the English messages;
// unknown keys are formatted as-is.
func T(ctx context.Context, key string, args ...interface{}) string {
	p := message.NewPrinter(FromContext(ctx), message.Catalog(cat))
	return p.Sprintf(key, args...)
}

func newCatalog() *catalog.Builder {
	b := catalog.NewBuilder(catalog.Fallback(language.English))
	for key, ar := range arabic {
		_ = b.SetString(language.English, key, key)
		_ = b.SetString(language.Arabic, key, ar)
	}
	return b
}

var arabic = map[string]string{
	"Something went wrong":                              "حدث خطأ ما",
	"Validation failed":                                 "فشل التحقق من البيانات",
	"Unauthorized":                                      "غير مصرح",
	"Please login again":                                "يرجى تسجيل الدخول مرة أخرى",
	"Your account is inactive, please contact Admin":    "حسابك غير نشط، يرجى التواصل مع المسؤول",
	"Property not found":                                "العقار غير موجود",
	"Your property is blocked, please contact admin":    "تم حظر عقارك، يرجى التواصل مع المسؤول",
	"Property published successfully":                   "تم نشر العقار بنجاح",
	"Property updated successfully":                     "تم تحديث العقار بنجاح",
	"Property created successfully":                     "تم إنشاء العقار بنجاح",
	"Create Account":                                    "إنشاء حساب",
	"Welcome back, %s":                                  "مرحباً بعودتك، %s",
	"OTP sent successfully":                             "تم إرسال رمز التحقق بنجاح",
	"OTP verified successfully":                         "تم التحقق من الرمز بنجاح",
	"Incorrect OTP":                                     "رمز التحقق غير صحيح",
	"OTP expired":                                       "انتهت صلاحية رمز التحقق",
	"Invalid credentials":                               "بيانات الدخول غير صحيحة",
	"Email already exists":                              "البريد الإلكتروني مستخدم بالفعل",
	"Phone number already exists":                       "رقم الهاتف مستخدم بالفعل",
	"Email or Phone number required":                    "البريد الإلكتروني أو رقم الهاتف مطلوب",
	"Registered successfully":                           "تم التسجيل بنجاح",
	"Logged in successfully":                            "تم تسجيل الدخول بنجاح",
	"Profile photo updated successfully":                "تم تحديث صورة الملف الشخصي بنجاح",
	"Phone number updated successfully":                 "تم تحديث رقم الهاتف بنجاح",
	"Password changed successfully":                     "تم تغيير كلمة المرور بنجاح",
	"User deleted successfully":                         "تم حذف المستخدم بنجاح",
	"User status updated successfully":                  "تم تحديث حالة المستخدم بنجاح",
	"Property deleted successfully":                     "تم حذف العقار بنجاح",
	"Property status updated successfully":              "تم تحديث حالة العقار بنجاح",
	"Images uploaded successfully":                      "تم رفع الصور بنجاح",
	"Images removed successfully":                       "تم حذف الصور بنجاح",
	"Invalid user Id":                                   "معرف المستخدم غير صالح",
	"Old password is incorrect":                         "كلمة المرور القديمة غير صحيحة",
	"Too many OTP requests, please try again later":     "طلبات كثيرة لرمز التحقق، حاول لاحقاً",
	"Invalid request body":                              "جسم الطلب غير صالح",
	"OTP error":                                         "خطأ في رمز التحقق",
	"Failed to upload file":                             "فشل رفع الملف",
	"Admin not found":                                   "المسؤول غير موجود",
	"Villa":                                             "فيلا",
	"Apartment":                                         "شقة",
	"Farm House":                                        "مزرعة",
	"Istiraha":                                          "استراحة",
	"Camp":                                              "مخيم",
	"Heritage House":                                    "بيت تراثي",
	"Wifi":                                              "واي فاي",
	"Kitchen":                                           "مطبخ",
	"Pool":                                              "مسبح",
}
